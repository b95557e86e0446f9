package workflows

import (
	"encoding/json"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
)

// TranscriptionRequest is the workflow input: one job envelope, same
// shape the HTTP surface and the queue consumer accept.
type TranscriptionRequest struct {
	JobID string        `json:"job_id"`
	Input handler.Input `json:"input"`
}

// TranscriptionResult is the finished job envelope. Output carries the
// engine payload verbatim; a FAILED status plus structured error is a
// successful workflow run, not a workflow error.
type TranscriptionResult struct {
	JobID       string             `json:"job_id"`
	Status      string             `json:"status"`
	Output      json.RawMessage    `json:"output,omitempty"`
	Error       *handler.ErrorInfo `json:"error,omitempty"`
	Engine      string             `json:"engine,omitempty"`
	ExecutionMS int64              `json:"execution_ms"`
}

// EngineHealth is one engine's probe outcome from a health sweep.
type EngineHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// TranscriptionWorkflow runs one transcription job through the worker
// core. The activity gets exactly one attempt: job failures are terminal
// and come back inside the envelope, so there is nothing for Temporal to
// retry.
func TranscriptionWorkflow(ctx workflow.Context, req TranscriptionRequest) (TranscriptionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting transcription workflow", "jobId", req.JobID, "engine", req.Input.Engine)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var result TranscriptionResult
	err := workflow.ExecuteActivity(ctx, "RunTranscriptionJob", req).Get(ctx, &result)
	if err != nil {
		logger.Error("Transcription activity failed", "jobId", req.JobID, "error", err)
		return TranscriptionResult{
			JobID:  req.JobID,
			Status: model.StatusFailed,
			Error:  &handler.ErrorInfo{Kind: handler.KindInternal, Message: err.Error()},
		}, err
	}

	if result.Status == model.StatusFailed {
		logger.Warn("Transcription job failed",
			"jobId", req.JobID,
			"kind", result.Error.Kind,
			"message", result.Error.Message)
	} else {
		logger.Info("Transcription workflow completed",
			"jobId", req.JobID,
			"engine", result.Engine,
			"executionMs", result.ExecutionMS)
	}

	return result, nil
}

// EngineHealthWorkflow probes every registered engine once. Schedule it
// on a cron to keep a health history in the workflow log.
func EngineHealthWorkflow(ctx workflow.Context) ([]EngineHealth, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var statuses []EngineHealth
	if err := workflow.ExecuteActivity(ctx, "CheckEngines").Get(ctx, &statuses); err != nil {
		logger.Error("Engine health sweep failed", "error", err)
		return nil, err
	}

	for _, st := range statuses {
		if !st.Healthy {
			logger.Warn("Engine unhealthy", "engine", st.Name, "error", st.Error)
		}
	}
	return statuses, nil
}
