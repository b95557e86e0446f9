package services

import (
	"context"
	"io"

	"audio-scribe/internal/api/v1/dto"
)

// JobService defines the interface for job operations
type JobService interface {
	// RunSync executes a job in the request path and returns the finished
	// envelope. Job failures are part of the envelope, not an error.
	RunSync(ctx context.Context, req *dto.JobRequest) *dto.JobResponse

	// Enqueue submits a job for async execution.
	Enqueue(ctx context.Context, req *dto.JobRequest) (*dto.JobResponse, error)

	// Status reports an async job's current envelope.
	Status(ctx context.Context, id string) (*dto.JobResponse, error)

	// Cancel withdraws a job still waiting in the queue.
	Cancel(ctx context.Context, id string) (*dto.JobResponse, error)

	// PurgeQueue drops every queued job.
	PurgeQueue(ctx context.Context) (*dto.PurgeResponse, error)
}

// EngineService defines the interface for engine inventory operations
type EngineService interface {
	ListEngines(ctx context.Context) ([]dto.EngineResponse, error)
	GetEngine(ctx context.Context, name string) (*dto.EngineResponse, error)
	CheckEngineHealth(ctx context.Context, name string) (*dto.EngineHealthResponse, error)
}

// LedgerService defines the interface for job history operations
type LedgerService interface {
	ListJobs(ctx context.Context, query dto.ListJobsQuery) (*dto.PaginatedJobsResponse, error)
	GetStats(ctx context.Context) (*dto.LedgerStatsResponse, error)
}

// ExportService defines the interface for ledger export operations
type ExportService interface {
	ExportJobs(ctx context.Context, query dto.ExportQuery, writer io.Writer) error
}

// StorageService persists finished job payloads to an object store
type StorageService interface {
	StoreResult(ctx context.Context, jobID string, payload []byte) error
	ResultURL(ctx context.Context, jobID string) (string, error)
	DeleteResult(ctx context.Context, jobID string) error
}
