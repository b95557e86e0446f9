package worker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"audio-scribe/internal/app/engine"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/repository"
	"audio-scribe/internal/app/temporal/activities"
	"audio-scribe/internal/app/temporal/pkg/common"
	"audio-scribe/internal/app/temporal/workflows"
)

// Options configure one worker process.
type Options struct {
	Config     common.TemporalConfig
	Identity   string
	HealthAddr string

	Handler  *handler.Handler
	Registry *engine.Registry
	Ledger   repository.JobDAO
}

// Worker hosts the transcription workflows and activities on one task
// queue, with an optional health endpoint for container probes.
type Worker struct {
	client     client.Client
	worker     sdkworker.Worker
	logger     *zap.Logger
	status     *HealthStatus
	healthAddr string
	taskQueue  string
}

// New dials Temporal and assembles a registered worker.
func New(opts Options, logger *zap.Logger) (*Worker, error) {
	if opts.Identity == "" {
		opts.Identity = fmt.Sprintf("scribe-worker-%s", hostname())
	}

	temporalClient, err := common.NewTemporalClient(opts.Config, logger)
	if err != nil {
		return nil, err
	}

	w := sdkworker.New(temporalClient, opts.Config.TaskQueue, sdkworker.Options{
		Identity:                           opts.Identity,
		MaxConcurrentActivityExecutionSize: 10,
	})

	var actOpts []activities.Option
	if opts.Ledger != nil {
		actOpts = append(actOpts, activities.WithLedger(opts.Ledger))
	}
	acts := activities.NewTranscribeActivities(opts.Handler, opts.Registry, actOpts...)

	w.RegisterWorkflow(workflows.TranscriptionWorkflow)
	w.RegisterWorkflow(workflows.EngineHealthWorkflow)
	w.RegisterActivity(acts.RunTranscriptionJob)
	w.RegisterActivity(acts.CheckEngines)

	status := &HealthStatus{
		WorkerID:  opts.Identity,
		TaskQueue: opts.Config.TaskQueue,
		Status:    "running",
		StartedAt: time.Now(),
		Temporal: ConnectionStatus{
			Connected: true,
			Endpoint:  opts.Config.HostPort,
		},
	}
	for name, err := range opts.Registry.HealthCheckAll(context.Background()) {
		st := EngineStatus{Name: name, Available: err == nil}
		if err != nil {
			st.Error = err.Error()
		}
		status.Engines = append(status.Engines, st)
	}
	sort.Slice(status.Engines, func(i, j int) bool {
		return status.Engines[i].Name < status.Engines[j].Name
	})

	return &Worker{
		client:     temporalClient,
		worker:     w,
		logger:     logger,
		status:     status,
		healthAddr: opts.HealthAddr,
		taskQueue:  opts.Config.TaskQueue,
	}, nil
}

// Run serves the task queue until interrupted.
func (w *Worker) Run() error {
	if w.healthAddr != "" {
		startHealthServer(w.healthAddr, w.status)
		w.logger.Info("Health server started", zap.String("addr", w.healthAddr))
	}

	w.logger.Info("Worker started",
		zap.String("taskQueue", w.taskQueue),
		zap.String("identity", w.status.WorkerID))

	return w.worker.Run(sdkworker.InterruptCh())
}

// Stop shuts the worker down and closes the Temporal connection.
func (w *Worker) Stop() {
	w.worker.Stop()
	w.client.Close()
	w.logger.Info("Worker stopped")
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
