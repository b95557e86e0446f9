package model

import "time"

// Job statuses, in lifecycle order.
const (
	StatusInQueue    = "IN_QUEUE"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

// Job is one ledger row: a transcription invocation and its outcome.
type Job struct {
	ID     string
	Status string

	Engine      string
	Model       string
	AudioFormat string
	SourceName  string

	AudioSeconds float64

	// Transcript is the bookkeeping text extracted by the engine. ResultJSON
	// is the engine payload exactly as produced; it is stored and served
	// back without reparsing.
	Transcript string
	ResultJSON string

	ErrorKind    string
	ErrorMessage string

	ExecutionMS int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether the job reached a final status.
func (j *Job) Terminal() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// KnownStatuses lists every valid job status.
func KnownStatuses() []string {
	return []string{StatusInQueue, StatusInProgress, StatusCompleted, StatusFailed, StatusCancelled}
}
