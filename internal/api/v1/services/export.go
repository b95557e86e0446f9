package services

import (
	"context"
	"io"

	"github.com/samber/lo"

	apierrors "audio-scribe/internal/api/errors"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/app/export"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
)

// ExportServiceImpl implements ExportService over the job DAO
type ExportServiceImpl struct {
	dao repository.JobDAO
}

// NewExportService creates a new export service
func NewExportService(dao repository.JobDAO) *ExportServiceImpl {
	return &ExportServiceImpl{dao: dao}
}

// ExportJobs streams the ledger as an xlsx workbook.
func (s *ExportServiceImpl) ExportJobs(ctx context.Context, query dto.ExportQuery, writer io.Writer) error {
	if query.Limit < 1 {
		query.Limit = 1000
	}

	jobs, err := s.dao.List(query.Limit, 0)
	if err != nil {
		return apierrors.NewInternalError("failed to read ledger: " + err.Error())
	}
	if query.Engine != "" {
		jobs = lo.Filter(jobs, func(j model.Job, _ int) bool {
			return j.Engine == query.Engine
		})
	}

	if err := export.WriteTo(jobs, writer); err != nil {
		return apierrors.NewInternalError("failed to build workbook: " + err.Error())
	}
	return nil
}
