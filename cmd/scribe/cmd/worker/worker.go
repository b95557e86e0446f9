package worker

import (
	"os"

	"github.com/spf13/cobra"

	"audio-scribe/internal/app"
	"audio-scribe/internal/app/temporal/pkg/common"
	"audio-scribe/internal/app/temporal/worker"
)

var (
	taskQueue  string
	healthAddr string
	identity   string
)

func init() {
	Cmd.Flags().StringVarP(&taskQueue, "task-queue", "q", "", "Temporal task queue (overrides TEMPORAL_TASK_QUEUE)")
	Cmd.Flags().StringVar(&healthAddr, "health-addr", ":8085", "listen address for the worker health endpoints")
	Cmd.Flags().StringVar(&identity, "identity", "", "worker identity (defaults to scribe-worker-<hostname>)")
}

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal transcription worker",
	Long: `Run the Temporal transcription worker

- Registers the transcription workflow and activity on the task queue
- Heartbeats while engine calls are in flight
- Exposes /health, /live and /ready probes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := common.MustNewLogger(os.Getenv("SCRIBE_ENV") != "production")
		defer logger.Sync()

		core, err := app.InitializeCore()
		if err != nil {
			return err
		}

		ledger, err := app.InitializeLedger()
		if err != nil {
			return err
		}
		defer ledger.Close()

		cfg := common.DefaultTemporalConfig()
		if taskQueue != "" {
			cfg.TaskQueue = taskQueue
		}

		w, err := worker.New(worker.Options{
			Config:     cfg,
			Identity:   identity,
			HealthAddr: healthAddr,
			Handler:    core.Handler,
			Registry:   core.Registry,
			Ledger:     ledger,
		}, logger)
		if err != nil {
			return err
		}
		defer w.Stop()

		return w.Run()
	},
}
