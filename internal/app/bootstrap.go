package app

import (
	"log/slog"

	"mock_exchange/internal/event"
	"mock_exchange/internal/infra"
	"mock_exchange/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logging, DB).
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping Mock Exchange...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (only when recording is on)
	if cfg.Recorder.Enabled {
		store, err := storage.NewStorage()
		if err != nil {
			return err
		}
		b.Storage = store
		slog.Info("✅ Database initialized")
	}

	// 4. Pre-warm the event pool for the ingest hotpath
	event.Warmup()

	return nil
}
