package command

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"

	"audio-scribe/internal/app/temporal/workflows"
)

// SubmitTranscription starts a transcription workflow for one job and
// returns the running handle without waiting for the result.
func SubmitTranscription(ctx context.Context, c client.Client, taskQueue string, req workflows.TranscriptionRequest) (client.WorkflowRun, error) {
	options := client.StartWorkflowOptions{
		ID:        "transcribe-" + req.JobID,
		TaskQueue: taskQueue,
	}

	run, err := c.ExecuteWorkflow(ctx, options, workflows.TranscriptionWorkflow, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start transcription workflow: %w", err)
	}
	return run, nil
}

// AwaitResult blocks until the workflow finishes and decodes the job
// envelope. The timeout bounds the wait, zero means no bound.
func AwaitResult(ctx context.Context, run client.WorkflowRun, timeout time.Duration) (*workflows.TranscriptionResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var result workflows.TranscriptionResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("workflow did not complete: %w", err)
	}
	return &result, nil
}
