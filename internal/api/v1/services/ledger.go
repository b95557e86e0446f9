package services

import (
	"context"

	"github.com/samber/lo"

	apierrors "audio-scribe/internal/api/errors"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
)

// LedgerServiceImpl implements LedgerService over the job DAO
type LedgerServiceImpl struct {
	dao repository.JobDAO
}

// NewLedgerService creates a new ledger service
func NewLedgerService(dao repository.JobDAO) *LedgerServiceImpl {
	return &LedgerServiceImpl{dao: dao}
}

// ListJobs returns one ledger page, newest first.
func (s *LedgerServiceImpl) ListJobs(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}

	var jobs []model.Job
	var err error
	if query.Status != "" {
		// Status pages are not offset-paged; the DAO returns the newest
		// rows in that status up to the limit.
		jobs, err = s.dao.ListByStatus(query.Status, query.Limit)
	} else {
		offset := (query.Page - 1) * query.Limit
		jobs, err = s.dao.List(query.Limit, offset)
	}
	if err != nil {
		return nil, apierrors.NewInternalError("failed to read ledger: " + err.Error())
	}

	if query.Engine != "" {
		jobs = lo.Filter(jobs, func(j model.Job, _ int) bool {
			return j.Engine == query.Engine
		})
	}

	counts, err := s.dao.CountByStatus()
	if err != nil {
		return nil, apierrors.NewInternalError("failed to count ledger rows: " + err.Error())
	}
	total := lo.Sum(lo.Values(counts))

	return &dto.PaginatedJobsResponse{
		Jobs: lo.Map(jobs, func(j model.Job, _ int) dto.JobRecordResponse {
			return dto.ToJobRecordResponse(j)
		}),
		Pagination: dto.PaginationResponse{
			Page:    query.Page,
			Limit:   query.Limit,
			Total:   total,
			HasNext: query.Page*query.Limit < total,
		},
	}, nil
}

// GetStats aggregates the ledger by status and by engine.
func (s *LedgerServiceImpl) GetStats(ctx context.Context) (*dto.LedgerStatsResponse, error) {
	byStatus, err := s.dao.CountByStatus()
	if err != nil {
		return nil, apierrors.NewInternalError("failed to count by status: " + err.Error())
	}
	byEngine, err := s.dao.CountByEngine()
	if err != nil {
		return nil, apierrors.NewInternalError("failed to count by engine: " + err.Error())
	}
	return &dto.LedgerStatsResponse{
		ByStatus: byStatus,
		ByEngine: byEngine,
	}, nil
}
