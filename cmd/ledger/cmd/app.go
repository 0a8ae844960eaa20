package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sheikh-saqib/account-ledger/internal/config"
	"github.com/sheikh-saqib/account-ledger/internal/events"
	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/storage"
)

// app is an opened ledger plus the resources behind it.
type app struct {
	cfg       *config.Config
	ledger    *ledger.Ledger
	store     io.Closer
	publisher events.Publisher
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigFile())
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Storage.Backend = backend
	}
	if dataFile != "" {
		cfg.Storage.DataFile = dataFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := slog.Default()

	slog.Debug("Opening storage", "backend", cfg.Storage.Backend)
	store, closer, err := storage.Open(ctx, cfg.Storage, cfg.Ledger.MaxIdentifierLen, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	publisher, err := events.Open(cfg.Kafka)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to open event publisher: %w", err)
	}

	l, err := ledger.Open(ctx, store, ledger.Options{
		Capacity:         cfg.Ledger.Capacity,
		MaxIdentifierLen: cfg.Ledger.MaxIdentifierLen,
		Publisher:        publisher,
		Logger:           logger,
	})
	if err != nil {
		publisher.Close()
		closer.Close()
		return nil, err
	}

	return &app{cfg: cfg, ledger: l, store: closer, publisher: publisher}, nil
}

// Close releases the publisher and the storage handle. The ledger itself is
// saved by each mutation, so nothing is written here.
func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		slog.Warn("failed to close event publisher", "error", err)
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}
