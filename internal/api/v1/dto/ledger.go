package dto

import (
	"time"

	"audio-scribe/internal/app/model"
)

// JobRecordResponse represents one ledger row in API responses
type JobRecordResponse struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"`
	Engine       string     `json:"engine,omitempty"`
	Model        string     `json:"model,omitempty"`
	AudioFormat  string     `json:"audio_format,omitempty"`
	SourceName   string     `json:"source_name,omitempty"`
	AudioSeconds float64    `json:"audio_seconds,omitempty"`
	Transcript   string     `json:"transcript,omitempty"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ExecutionMS  int64      `json:"execution_ms,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ListJobsQuery represents query parameters for listing ledger rows
type ListJobsQuery struct {
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=IN_QUEUE IN_PROGRESS COMPLETED FAILED CANCELLED"`
	Engine string `form:"engine"`
}

// PaginatedJobsResponse represents a paginated ledger page
type PaginatedJobsResponse struct {
	Jobs       []JobRecordResponse `json:"jobs"`
	Pagination PaginationResponse  `json:"pagination"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// LedgerStatsResponse aggregates the ledger by status and engine
type LedgerStatsResponse struct {
	ByStatus map[string]int `json:"by_status"`
	ByEngine map[string]int `json:"by_engine"`
}

// ExportQuery represents parameters for ledger export
type ExportQuery struct {
	Engine string `form:"engine"`
	Limit  int    `form:"limit,default=1000" binding:"min=1,max=10000"`
}

// ToJobRecordResponse converts a ledger row to a response DTO
func ToJobRecordResponse(j model.Job) JobRecordResponse {
	resp := JobRecordResponse{
		ID:           j.ID,
		Status:       j.Status,
		Engine:       j.Engine,
		Model:        j.Model,
		AudioFormat:  j.AudioFormat,
		SourceName:   j.SourceName,
		AudioSeconds: j.AudioSeconds,
		Transcript:   j.Transcript,
		ErrorKind:    j.ErrorKind,
		ErrorMessage: j.ErrorMessage,
		ExecutionMS:  j.ExecutionMS,
		CreatedAt:    j.CreatedAt,
	}
	if !j.UpdatedAt.IsZero() {
		resp.UpdatedAt = &j.UpdatedAt
	}
	return resp
}
