package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/sheikh-saqib/account-ledger/internal/config"
	"github.com/sheikh-saqib/account-ledger/internal/storage/file"
	"github.com/sheikh-saqib/account-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/account-ledger/internal/storage/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "accounts.txt")
		store, closer, err := Open(ctx, config.StorageConfig{Backend: config.BackendFile, DataFile: path}, 49, logger)
		require.NoError(t, err)
		defer closer.Close()

		fs, ok := store.(*file.FileRecordStore)
		require.True(t, ok)
		assert.Equal(t, path, fs.Path())
	})

	t.Run("Memory", func(t *testing.T) {
		store, closer, err := Open(ctx, config.StorageConfig{Backend: config.BackendMemory}, 49, logger)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &memory.MemoryRecordStore{}, store)
	})

	t.Run("SQLite", func(t *testing.T) {
		store, closer, err := Open(ctx, config.StorageConfig{Backend: config.BackendSQLite, SQLitePath: ":memory:"}, 49, logger)
		require.NoError(t, err)
		assert.IsType(t, &sqlstore.SQLRecordStore{}, store)
		assert.NoError(t, closer.Close())
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := Open(ctx, config.StorageConfig{Backend: "csv"}, 49, logger)
		assert.ErrorContains(t, err, "unknown storage backend")
	})
}
