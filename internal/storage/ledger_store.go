// Package storage selects the record backend named in the configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sheikh-saqib/account-ledger/internal/config"
	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/storage/file"
	"github.com/sheikh-saqib/account-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/account-ledger/internal/storage/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the RecordStore for cfg.Backend together with a closer that
// releases any handle the backend keeps for the whole run.
func Open(ctx context.Context, cfg config.StorageConfig, maxIdentLen int, logger *slog.Logger) (interfaces.RecordStore, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		store := file.New(file.Config{
			Path:             cfg.DataFile,
			Atomic:           cfg.AtomicSave,
			MaxIdentifierLen: maxIdentLen,
			Logger:           logger,
		})
		return store, nopCloser{}, nil
	case config.BackendMemory:
		return memory.NewMemoryRecordStore(), nopCloser{}, nil
	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.Table)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
