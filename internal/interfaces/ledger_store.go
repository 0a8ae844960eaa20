package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// RecordStore is the durable mirror of the ledger. Implementations always
// hand back and accept the complete, ordered list of records.
type RecordStore interface {
	// LoadRecords returns every stored record in insertion order.
	// A store that has never been written returns an empty slice and no error.
	LoadRecords(ctx context.Context) ([]models.Record, error)

	// SaveRecords replaces the stored contents with records.
	SaveRecords(ctx context.Context, records []models.Record) error
}
