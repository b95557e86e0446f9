package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
)

// ResultSink receives completed payloads for persistence, typically an
// object store. Sink failures never fail the job.
type ResultSink interface {
	StoreResult(ctx context.Context, jobID string, payload []byte) error
}

// Consumer drains the queue and runs each job through the worker pipeline.
// One job is one attempt: failed jobs are recorded and never requeued.
type Consumer struct {
	queue   JobQueue
	handler *handler.Handler
	ledger  repository.JobDAO
	sink    ResultSink
	logger  *slog.Logger

	pollTimeout time.Duration
}

// ConsumerOption configures optional consumer collaborators.
type ConsumerOption func(*Consumer)

// WithLedger records job lifecycle rows in the given DAO.
func WithLedger(ledger repository.JobDAO) ConsumerOption {
	return func(c *Consumer) { c.ledger = ledger }
}

// WithResultSink persists completed payloads to the sink.
func WithResultSink(sink ResultSink) ConsumerOption {
	return func(c *Consumer) { c.sink = sink }
}

// WithPollTimeout overrides the blocking-pop timeout.
func WithPollTimeout(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.pollTimeout = d }
}

func NewConsumer(q JobQueue, h *handler.Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		queue:       q,
		handler:     h,
		logger:      logger,
		pollTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run drains the queue until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("queue consumer started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("queue consumer stopping")
			return nil
		default:
		}

		job, err := c.queue.Dequeue(ctx, c.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("queue consumer stopping")
				return nil
			}
			c.logger.Error("failed to dequeue job", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		c.process(ctx, job)
	}
}

func (c *Consumer) process(ctx context.Context, job *Job) {
	logger := c.logger.With("job_id", job.ID)

	if err := c.queue.MarkInProgress(ctx, job.ID); err != nil {
		logger.Error("failed to mark job in progress", "error", err)
	}
	c.ledgerUpdateStatus(job.ID, model.StatusInProgress, logger)

	out := c.handler.Handle(ctx, &job.Input)
	executionMS := out.Elapsed.Milliseconds()

	if out.Failed() {
		logger.Warn("job failed",
			"kind", out.Error.Kind,
			"engine", out.Error.Engine,
			"execution_ms", executionMS,
		)
		if err := c.queue.MarkFailed(ctx, job.ID, out.Error, executionMS); err != nil {
			logger.Error("failed to record job failure", "error", err)
		}
		if c.ledger != nil {
			if err := c.ledger.Fail(job.ID, out.Error.Kind, out.Error.Message, executionMS); err != nil {
				logger.Error("failed to record ledger failure", "error", err)
			}
		}
		return
	}

	logger.Info("job completed",
		"engine", out.Engine,
		"audio_seconds", out.DurationSec,
		"execution_ms", executionMS,
	)

	if err := c.queue.MarkCompleted(ctx, job.ID, out.Result, executionMS); err != nil {
		logger.Error("failed to record job result", "error", err)
	}
	if c.ledger != nil {
		if err := c.ledger.Complete(job.ID, string(out.Result), out.Text, out.DurationSec, executionMS); err != nil {
			logger.Error("failed to record ledger result", "error", err)
		}
	}
	if c.sink != nil {
		if err := c.sink.StoreResult(ctx, job.ID, out.Result); err != nil {
			logger.Error("failed to persist result payload", "error", err)
		}
	}
}

func (c *Consumer) ledgerUpdateStatus(id, status string, logger *slog.Logger) {
	if c.ledger == nil {
		return
	}
	if err := c.ledger.UpdateStatus(id, status); err != nil {
		logger.Error("failed to update ledger status", "status", status, "error", err)
	}
}
