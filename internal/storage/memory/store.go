package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// MemoryRecordStore is an in-memory implementation of interfaces.RecordStore.
// It keeps its own copy of the records so callers cannot alias its state.
type MemoryRecordStore struct {
	mu      sync.Mutex
	records []models.Record
	saves   int
}

// NewMemoryRecordStore creates a store pre-populated with a copy of records.
func NewMemoryRecordStore(records ...models.Record) *MemoryRecordStore {
	m := &MemoryRecordStore{records: make([]models.Record, len(records))}
	copy(m.records, records)
	return m
}

// LoadRecords returns a copy of the stored records.
func (m *MemoryRecordStore) LoadRecords(ctx context.Context) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Record, len(m.records))
	copy(copied, m.records)
	return copied, nil
}

// SaveRecords replaces the stored records with a copy of records.
func (m *MemoryRecordStore) SaveRecords(ctx context.Context, records []models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]models.Record, len(records))
	copy(m.records, records)
	m.saves++
	return nil
}

// Saves reports how many times SaveRecords has been called.
func (m *MemoryRecordStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Compile-time check: ensure MemoryRecordStore implements RecordStore
var _ interfaces.RecordStore = (*MemoryRecordStore)(nil)
