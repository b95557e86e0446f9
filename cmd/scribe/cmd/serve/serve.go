package serve

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"audio-scribe/internal/api/server"
	"audio-scribe/internal/api/v1/routes"
	"audio-scribe/internal/api/v1/services"
	"audio-scribe/internal/app"
	"audio-scribe/internal/app/queue"
	"audio-scribe/internal/config"
)

var (
	host    string
	port    string
	noQueue bool
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides SCRIBE_HOST)")
	Cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SCRIBE_PORT)")
	Cmd.Flags().BoolVar(&noQueue, "no-queue", false, "serve without the async job queue")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription API server",
	Long: `Run the transcription API server

- POST /v1/runsync executes a job in the request path
- POST /v1/run queues a job for the background consumer
- GET /v1/engines lists the configured engines
- GET /v1/jobs pages the job ledger`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	serverCfg := config.GetServerConfig()
	if host != "" {
		serverCfg.Host = host
	}
	if port != "" {
		serverCfg.Port = port
	}
	if err := config.ValidateServerConfig(serverCfg); err != nil {
		return err
	}

	core, err := app.InitializeCore()
	if err != nil {
		return err
	}

	logger := newLogger(serverCfg.Environment, core.Config.Global.LogLevel)

	// Optional collaborators. The API degrades per endpoint instead of
	// refusing to start.
	ledger, err := app.InitializeLedger()
	if err != nil {
		logger.Warn("job ledger unavailable, history endpoints disabled", "error", err)
		ledger = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var jobQueue queue.JobQueue
	if !noQueue {
		queueCfg := config.GetQueueConfig()
		if err := config.ValidateQueueConfig(queueCfg); err != nil {
			return err
		}
		q, err := queue.NewRedisQueue(ctx, queue.RedisConfig{
			Addr:     queueCfg.RedisAddr,
			Password: queueCfg.RedisPassword,
			DB:       queueCfg.RedisDB,
			TTL:      queueCfg.ResultTTL,
		})
		if err != nil {
			logger.Warn("redis unavailable, async endpoints disabled",
				"addr", queueCfg.RedisAddr, "error", err)
		} else {
			jobQueue = q
		}
	}

	var store services.StorageService
	storageCfg := config.GetStorageConfig()
	if storageCfg.Enabled() {
		if err := config.ValidateStorageConfig(storageCfg); err != nil {
			return err
		}
		s, err := services.NewMinioStorageService(ctx, services.StorageConfig{
			Endpoint:  storageCfg.Endpoint,
			AccessKey: storageCfg.AccessKey,
			SecretKey: storageCfg.SecretKey,
			Bucket:    storageCfg.Bucket,
			UseSSL:    storageCfg.UseSSL,
		})
		if err != nil {
			logger.Warn("object store unavailable, result persistence disabled", "error", err)
		} else {
			store = s
		}
	}

	var jobOpts []services.JobServiceOption
	if jobQueue != nil {
		jobOpts = append(jobOpts, services.WithQueue(jobQueue))
	}
	if ledger != nil {
		jobOpts = append(jobOpts, services.WithLedger(ledger))
	}
	if store != nil {
		jobOpts = append(jobOpts, services.WithStorage(store))
	}

	container := &routes.ServiceContainer{
		JobService:    services.NewJobService(core.Handler, logger, jobOpts...),
		EngineService: services.NewEngineService(core.Registry),
	}
	if ledger != nil {
		container.LedgerService = services.NewLedgerService(ledger)
		container.ExportService = services.NewExportService(ledger)
	}

	if jobQueue != nil {
		consumerOpts := []queue.ConsumerOption{queue.WithPollTimeout(config.DefaultPollTimeout)}
		if ledger != nil {
			consumerOpts = append(consumerOpts, queue.WithLedger(ledger))
		}
		if store != nil {
			consumerOpts = append(consumerOpts, queue.WithResultSink(store))
		}
		consumer := queue.NewConsumer(jobQueue, core.Handler, logger, consumerOpts...)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("queue consumer stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(server.Config{
		Host:         serverCfg.Host,
		Port:         serverCfg.Port,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
		Environment:  serverCfg.Environment,
	}, container, logger)

	if err := srv.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", "signal", sig.String())

	// Stop the consumer before the listener so in-flight jobs finish
	// against a live handler.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if ledger != nil {
		if err := ledger.Close(); err != nil {
			logger.Warn("failed to close ledger", "error", err)
		}
	}
	return nil
}

func newLogger(environment, level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: l}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
