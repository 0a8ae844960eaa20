package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/lib/pq"
	"github.com/sheikh-saqib/account-ledger/internal/storage/sqlstore"
)

// Dialect uses numbered bind parameters and an exact NUMERIC balance column.
var Dialect = sqlstore.Dialect{
	Name:            "postgres",
	Placeholder:     func(n int) string { return "$" + strconv.Itoa(n) },
	QuoteIdentifier: pq.QuoteIdentifier,
	BalanceType:     "NUMERIC(20, 2)",
}

// Open connects to Postgres with dsn and makes sure the records table exists.
func Open(ctx context.Context, dsn, table string) (*sqlstore.SQLRecordStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	store := sqlstore.New(db, Dialect, table)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
