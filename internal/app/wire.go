//go:build wireinject
// +build wireinject

package app

import (
	"os"
	"path/filepath"

	"github.com/google/wire"

	"audio-scribe/internal/app/audio"
	"audio-scribe/internal/app/batch"
	"audio-scribe/internal/app/engine"
	"audio-scribe/internal/app/fetch"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/repository"
	"audio-scribe/internal/app/repository/pg"
	"audio-scribe/internal/app/repository/sqlite"
	"audio-scribe/internal/config"
)

// Core bundles the pieces every entrypoint mounts: the engine inventory
// built from the YAML config and the worker-core handler over it.
type Core struct {
	Config   *engine.Configuration
	Registry *engine.Registry
	Handler  *handler.Handler
}

func NewCore(cfg *engine.Configuration, registry *engine.Registry, h *handler.Handler) *Core {
	return &Core{Config: cfg, Registry: registry, Handler: h}
}

// provideEngineConfig loads ~/.scribe/engines.yaml, writing a commented
// default file on first run
func provideEngineConfig() (*engine.Configuration, error) {
	manager := engine.NewConfigManager(engine.GetDefaultConfigPath())
	return manager.LoadConfig()
}

func provideRegistry(cfg *engine.Configuration) (*engine.Registry, error) {
	return engine.BuildRegistry(cfg)
}

func provideFetcher() *fetch.Fetcher {
	return fetch.New(0, 0)
}

// provideHandler applies the global section of the engine config to the
// worker core
func provideHandler(cfg *engine.Configuration, registry *engine.Registry, fetcher *fetch.Fetcher) *handler.Handler {
	opts := []handler.Option{handler.WithFetcher(fetcher)}
	if cfg.Global.TempDir != "" {
		opts = append(opts, handler.WithTempDir(cfg.Global.TempDir))
	}
	if format, ok := audio.ParseFormat(cfg.Global.DefaultFormat); ok {
		opts = append(opts, handler.WithFallbackFormat(format))
	}
	return handler.New(registry, opts...)
}

// provideLedger opens the job ledger: PostgreSQL when DATABASE_URL is
// set, a local SQLite file otherwise
func provideLedger() (repository.JobDAO, error) {
	cfg := config.GetLedgerConfig()
	if cfg.UsePostgres() {
		return pg.NewPostgresJobDAO(cfg.DatabaseURL)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
		return nil, err
	}
	return sqlite.NewSQLiteJobDAO(cfg.SQLitePath)
}

// InitializeCore assembles the registry and handler for the server and
// worker entrypoints.
func InitializeCore() (*Core, error) {
	wire.Build(NewCore, provideEngineConfig, provideRegistry, provideFetcher, provideHandler)
	return nil, nil
}

// InitializeRunner assembles the batch transcription runner for the CLI.
func InitializeRunner(cfg batch.Config) (*batch.Runner, error) {
	wire.Build(batch.NewRunner, provideHandler, provideRegistry, provideEngineConfig, provideFetcher, provideLedger)
	return nil, nil
}

// InitializeLedger opens the job ledger alone, for the export command.
func InitializeLedger() (repository.JobDAO, error) {
	wire.Build(provideLedger)
	return nil, nil
}
