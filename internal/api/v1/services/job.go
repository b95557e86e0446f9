package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apierrors "audio-scribe/internal/api/errors"
	"audio-scribe/internal/api/v1/dto"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/queue"
	"audio-scribe/internal/app/repository"
)

// JobServiceImpl implements JobService on the worker core. The queue,
// ledger and storage are optional; endpoints that need a missing piece
// answer service_unavailable instead of failing at startup.
type JobServiceImpl struct {
	handler *handler.Handler
	queue   queue.JobQueue
	ledger  repository.JobDAO
	storage StorageService
	logger  *slog.Logger
}

// JobServiceOption configures optional collaborators.
type JobServiceOption func(*JobServiceImpl)

// WithQueue attaches the async job queue.
func WithQueue(q queue.JobQueue) JobServiceOption {
	return func(s *JobServiceImpl) { s.queue = q }
}

// WithLedger attaches the job history ledger.
func WithLedger(dao repository.JobDAO) JobServiceOption {
	return func(s *JobServiceImpl) { s.ledger = dao }
}

// WithStorage attaches the result object store.
func WithStorage(st StorageService) JobServiceOption {
	return func(s *JobServiceImpl) { s.storage = st }
}

// NewJobService creates a new job service
func NewJobService(h *handler.Handler, logger *slog.Logger, opts ...JobServiceOption) *JobServiceImpl {
	s := &JobServiceImpl{
		handler: h,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSync executes the job in the request path. The envelope always comes
// back with HTTP 200; a FAILED status plus structured error is the
// caller's signal, mirroring how the async status endpoint reports the
// same job.
func (s *JobServiceImpl) RunSync(ctx context.Context, req *dto.JobRequest) *dto.JobResponse {
	id := "sync-" + uuid.New().String()

	out := s.handler.Handle(ctx, &req.Input)
	s.recordSync(id, &req.Input, out)

	resp := &dto.JobResponse{
		ID:            id,
		ExecutionTime: out.Elapsed.Milliseconds(),
	}
	if out.Failed() {
		resp.Status = model.StatusFailed
		resp.Error = out.Error
		return resp
	}

	resp.Status = model.StatusCompleted
	resp.Output = out.Result

	if s.storage != nil {
		if err := s.storage.StoreResult(ctx, id, out.Result); err != nil {
			s.logger.Warn("failed to store result payload", "job_id", id, "error", err)
		} else if url, err := s.storage.ResultURL(ctx, id); err == nil {
			resp.ResultURL = url
		}
	}
	return resp
}

// Enqueue submits the job for async execution and answers IN_QUEUE.
func (s *JobServiceImpl) Enqueue(ctx context.Context, req *dto.JobRequest) (*dto.JobResponse, error) {
	if s.queue == nil {
		return nil, apierrors.NewServiceUnavailableError("job queue is not configured")
	}

	id := uuid.New().String()
	if err := s.queue.Enqueue(ctx, &queue.Job{ID: id, Input: req.Input}); err != nil {
		return nil, apierrors.NewServiceUnavailableError("failed to enqueue job: " + err.Error())
	}

	if s.ledger != nil {
		now := time.Now()
		row := &model.Job{
			ID:          id,
			Status:      model.StatusInQueue,
			Engine:      req.Input.Engine,
			Model:       req.Input.Model,
			SourceName:  req.Input.AudioURL,
			AudioFormat: req.Input.AudioFormat,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.ledger.Insert(row); err != nil {
			s.logger.Warn("failed to record queued job in ledger", "job_id", id, "error", err)
		}
	}

	return &dto.JobResponse{ID: id, Status: model.StatusInQueue}, nil
}

// Status reports the job's stored envelope.
func (s *JobServiceImpl) Status(ctx context.Context, id string) (*dto.JobResponse, error) {
	if s.queue == nil {
		return nil, apierrors.NewServiceUnavailableError("job queue is not configured")
	}

	st, err := s.queue.Status(ctx, id)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			return nil, apierrors.NewNotFoundError("job")
		}
		return nil, apierrors.NewInternalError("failed to read job status: " + err.Error())
	}

	resp := &dto.JobResponse{
		ID:            st.ID,
		Status:        st.Status,
		Output:        st.Output,
		Error:         st.Error,
		DelayTime:     st.DelayTime,
		ExecutionTime: st.ExecutionTime,
	}
	if st.Status == model.StatusCompleted && s.storage != nil {
		if url, err := s.storage.ResultURL(ctx, id); err == nil {
			resp.ResultURL = url
		}
	}
	return resp, nil
}

// Cancel withdraws a queued job. Jobs already running or finished are
// past cancelling and answer conflict.
func (s *JobServiceImpl) Cancel(ctx context.Context, id string) (*dto.JobResponse, error) {
	if s.queue == nil {
		return nil, apierrors.NewServiceUnavailableError("job queue is not configured")
	}

	ok, err := s.queue.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			return nil, apierrors.NewNotFoundError("job")
		}
		return nil, apierrors.NewInternalError("failed to cancel job: " + err.Error())
	}
	if !ok {
		return nil, apierrors.NewConflictError("job is no longer cancellable")
	}

	if s.ledger != nil {
		if err := s.ledger.UpdateStatus(id, model.StatusCancelled); err != nil {
			s.logger.Warn("failed to record cancellation in ledger", "job_id", id, "error", err)
		}
	}

	return &dto.JobResponse{ID: id, Status: model.StatusCancelled}, nil
}

// PurgeQueue drops every queued job.
func (s *JobServiceImpl) PurgeQueue(ctx context.Context) (*dto.PurgeResponse, error) {
	if s.queue == nil {
		return nil, apierrors.NewServiceUnavailableError("job queue is not configured")
	}

	removed, err := s.queue.Purge(ctx)
	if err != nil {
		return nil, apierrors.NewInternalError("failed to purge queue: " + err.Error())
	}
	return &dto.PurgeResponse{Removed: removed}, nil
}

// recordSync writes the finished invocation to the ledger in one insert,
// with the engine and format the worker actually resolved.
func (s *JobServiceImpl) recordSync(id string, in *handler.Input, out *handler.Output) {
	if s.ledger == nil {
		return
	}

	now := time.Now()
	row := &model.Job{
		ID:           id,
		Engine:       out.Engine,
		Model:        out.Model,
		AudioFormat:  string(out.Format),
		SourceName:   in.AudioURL,
		AudioSeconds: out.DurationSec,
		Transcript:   out.Text,
		ExecutionMS:  out.Elapsed.Milliseconds(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if out.Failed() {
		row.Status = model.StatusFailed
		row.ErrorKind = out.Error.Kind
		row.ErrorMessage = out.Error.Message
	} else {
		row.Status = model.StatusCompleted
		row.ResultJSON = string(out.Result)
	}

	if err := s.ledger.Insert(row); err != nil {
		s.logger.Warn("failed to record job in ledger", "job_id", id, "error", err)
	}
}
