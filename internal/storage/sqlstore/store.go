// Package sqlstore mirrors ledger records into a relational table through database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// DefaultTable is the table holding ledger records.
const DefaultTable = "ledger_accounts"

// Dialect captures the few statements that differ between SQL engines.
type Dialect struct {
	Name string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string
	// QuoteIdentifier quotes a table name.
	QuoteIdentifier func(name string) string
	// BalanceType is the column type used for balances.
	BalanceType string
}

// SQLRecordStore implements interfaces.RecordStore on top of a *sql.DB.
type SQLRecordStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// New wraps db. The table is quoted with the dialect; an empty name selects DefaultTable.
func New(db *sql.DB, dialect Dialect, table string) *SQLRecordStore {
	if table == "" {
		table = DefaultTable
	}
	return &SQLRecordStore{db: db, dialect: dialect, table: dialect.QuoteIdentifier(table)}
}

// EnsureSchema creates the records table if it does not exist.
func (s *SQLRecordStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	seq        INTEGER PRIMARY KEY,
	identifier TEXT NOT NULL,
	secret     INTEGER NOT NULL,
	balance    %s NOT NULL
)`, s.table, s.dialect.BalanceType)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.dialect.Name, err)
	}
	return nil
}

// LoadRecords returns every row ordered by insertion position.
func (s *SQLRecordStore) LoadRecords(ctx context.Context) ([]models.Record, error) {
	query := fmt.Sprintf(`SELECT identifier, secret, balance FROM %s ORDER BY seq`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.Identifier, &r.Secret, &r.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRecords replaces the table contents inside a single transaction.
func (s *SQLRecordStore) SaveRecords(ctx context.Context, records []models.Record) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	p := s.dialect.Placeholder
	insert := fmt.Sprintf(`INSERT INTO %s (seq, identifier, secret, balance) VALUES (%s, %s, %s, %s)`,
		s.table, p(1), p(2), p(3), p(4))

	stmt, err := dbTx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err = stmt.ExecContext(ctx, i, r.Identifier, r.Secret, r.Balance.StringFixed(2)); err != nil {
			return fmt.Errorf("failed to insert record %q: %w", r.Identifier, err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLRecordStore) Close() error {
	return s.db.Close()
}

var _ interfaces.RecordStore = (*SQLRecordStore)(nil)
