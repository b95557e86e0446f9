package repository

import (
	"time"

	"audio-scribe/internal/app/model"
)

// JobDAO is the job ledger. Implementations exist for SQLite (single node)
// and PostgreSQL (shared deployments).
type JobDAO interface {
	Close() error

	// Insert records a new job, whatever its status.
	Insert(job *model.Job) error

	// UpdateStatus moves a job to a new status.
	UpdateStatus(id, status string) error

	// Complete marks a job COMPLETED and stores its result.
	Complete(id, resultJSON, transcript string, audioSeconds float64, executionMS int64) error

	// Fail marks a job FAILED and stores the structured error.
	Fail(id, errorKind, errorMessage string, executionMS int64) error

	// GetByID fetches one job.
	GetByID(id string) (*model.Job, error)

	// FindBySource returns the most recent job for a source name, or
	// sql.ErrNoRows when the source was never submitted.
	FindBySource(sourceName string) (*model.Job, error)

	// List returns jobs newest first.
	List(limit, offset int) ([]model.Job, error)

	// ListByStatus returns jobs in one status, newest first.
	ListByStatus(status string, limit int) ([]model.Job, error)

	// CountByStatus tallies jobs per status.
	CountByStatus() (map[string]int, error)

	// CountByEngine tallies jobs per engine. Jobs that failed before an
	// engine was resolved count under the empty key.
	CountByEngine() (map[string]int, error)

	// PurgeOlderThan deletes terminal jobs updated before cutoff and
	// reports how many went.
	PurgeOlderThan(cutoff time.Time) (int64, error)
}
