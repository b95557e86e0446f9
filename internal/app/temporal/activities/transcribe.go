package activities

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.temporal.io/sdk/activity"

	"audio-scribe/internal/app/engine"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
	"audio-scribe/internal/app/temporal/workflows"
)

// TranscribeActivities runs transcription jobs through the worker core.
type TranscribeActivities struct {
	handler  *handler.Handler
	registry *engine.Registry
	ledger   repository.JobDAO
}

// Option configures optional collaborators.
type Option func(*TranscribeActivities)

// WithLedger records every finished job in the given ledger.
func WithLedger(dao repository.JobDAO) Option {
	return func(a *TranscribeActivities) { a.ledger = dao }
}

// NewTranscribeActivities creates the activity set.
func NewTranscribeActivities(h *handler.Handler, registry *engine.Registry, opts ...Option) *TranscribeActivities {
	a := &TranscribeActivities{
		handler:  h,
		registry: registry,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunTranscriptionJob executes one job end to end. The activity heartbeats
// while the engine call is in flight so a stuck engine trips the heartbeat
// timeout instead of the full start-to-close window. Job failures come
// back inside the result envelope; the activity itself only errors on
// cancellation.
func (a *TranscribeActivities) RunTranscriptionJob(ctx context.Context, req workflows.TranscriptionRequest) (workflows.TranscriptionResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting transcription job", "jobId", req.JobID, "engine", req.Input.Engine)

	activity.RecordHeartbeat(ctx, fmt.Sprintf("running job %s", req.JobID))

	heartbeatTicker := time.NewTicker(10 * time.Second)
	defer heartbeatTicker.Stop()

	done := make(chan struct{})
	var out *handler.Output

	go func() {
		out = a.handler.Handle(ctx, &req.Input)
		close(done)
	}()

	for {
		select {
		case <-done:
			result := buildResult(req.JobID, out)
			a.record(ctx, req.JobID, &req.Input, out)

			if out.Failed() {
				logger.Warn("Transcription job failed",
					"jobId", req.JobID,
					"kind", out.Error.Kind,
					"message", out.Error.Message)
			} else {
				logger.Info("Transcription job completed",
					"jobId", req.JobID,
					"engine", out.Engine,
					"elapsed", out.Elapsed)
			}
			return result, nil

		case <-heartbeatTicker.C:
			activity.RecordHeartbeat(ctx, fmt.Sprintf("still running job %s", req.JobID))

		case <-ctx.Done():
			return workflows.TranscriptionResult{
				JobID:  req.JobID,
				Status: model.StatusCancelled,
			}, ctx.Err()
		}
	}
}

// CheckEngines probes every registered engine.
func (a *TranscribeActivities) CheckEngines(ctx context.Context) ([]workflows.EngineHealth, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Checking engine health")

	results := a.registry.HealthCheckAll(ctx)

	statuses := make([]workflows.EngineHealth, 0, len(results))
	for name, err := range results {
		st := workflows.EngineHealth{Name: name, Healthy: err == nil}
		if err != nil {
			st.Error = err.Error()
		}
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, nil
}

func buildResult(jobID string, out *handler.Output) workflows.TranscriptionResult {
	result := workflows.TranscriptionResult{
		JobID:       jobID,
		Engine:      out.Engine,
		ExecutionMS: out.Elapsed.Milliseconds(),
	}
	if out.Failed() {
		result.Status = model.StatusFailed
		result.Error = out.Error
	} else {
		result.Status = model.StatusCompleted
		result.Output = out.Result
	}
	return result
}

// record writes the finished job to the ledger. Ledger trouble never
// fails a job that already ran.
func (a *TranscribeActivities) record(ctx context.Context, jobID string, in *handler.Input, out *handler.Output) {
	if a.ledger == nil {
		return
	}

	now := time.Now()
	row := &model.Job{
		ID:           jobID,
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

	if err := a.ledger.Insert(row); err != nil {
		activity.GetLogger(ctx).Warn("Failed to record job in ledger", "jobId", jobID, "error", err)
	}
}
