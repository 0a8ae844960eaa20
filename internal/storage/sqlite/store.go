// Package sqlite keeps ledger records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/sheikh-saqib/account-ledger/internal/storage/sqlstore"
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "ledger.db"

// Dialect stores balances as fixed 2-decimal text so they round-trip exactly.
var Dialect = sqlstore.Dialect{
	Name:            "sqlite",
	Placeholder:     func(int) string { return "?" },
	QuoteIdentifier: quoteIdentifier,
	BalanceType:     "TEXT",
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Open opens (creating if needed) the SQLite database at path.
// The special path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path, table string) (*sqlstore.SQLRecordStore, error) {
	connStr := ":memory:"
	if path != ":memory:" {
		if path == "" {
			path = DefaultPath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		connStr = fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := sqlstore.New(db, Dialect, table)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
