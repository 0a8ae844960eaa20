// Package file stores ledger records in a flat, whitespace separated text file.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
)

// DefaultPath is the data file used when none is configured.
const DefaultPath = "accounts.txt"

// Config represents the configuration for FileRecordStore.
type Config struct {
	// Path is the data file, created on first save.
	Path string
	// Atomic writes to a temporary file and renames it over Path instead of
	// truncating Path in place.
	Atomic bool
	// MaxIdentifierLen bounds identifiers read back from the file.
	MaxIdentifierLen int
	Logger           *slog.Logger
}

// FileRecordStore is a flat-file implementation of interfaces.RecordStore.
// The file is opened, fully read or written, and closed within each call.
type FileRecordStore struct {
	path        string
	atomic      bool
	maxIdentLen int
	logger      *slog.Logger
}

// New creates a FileRecordStore. An empty Path selects DefaultPath.
func New(cfg Config) *FileRecordStore {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	maxIdentLen := cfg.MaxIdentifierLen
	if maxIdentLen <= 0 {
		maxIdentLen = models.DefaultMaxIdentifierLen
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FileRecordStore{path: path, atomic: cfg.Atomic, maxIdentLen: maxIdentLen, logger: logger}
}

// Path returns the data file path.
func (s *FileRecordStore) Path() string {
	return s.path
}

// LoadRecords reads the data file. A missing file is a first run and yields no records.
func (s *FileRecordStore) LoadRecords(ctx context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("data file does not exist yet", "path", s.path)
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("failed to open data file %s: %w", s.path, err)
	}
	defer f.Close()

	records, skipped, err := DecodeRecords(f, s.maxIdentLen)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", s.path, err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed lines in data file", "path", s.path, "skipped", skipped)
	}
	return records, nil
}

// SaveRecords rewrites the whole data file.
func (s *FileRecordStore) SaveRecords(ctx context.Context, records []models.Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if s.atomic {
		return s.saveAtomic(records)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("cannot write to data file %s: %w", s.path, err)
	}
	if err := writeRecords(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write data file %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close data file %s: %w", s.path, err)
	}
	return nil
}

func (s *FileRecordStore) saveAtomic(records []models.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary data file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := writeRecords(tmp, records); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary data file %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temporary data file %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary data file %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace data file %s: %w", s.path, err)
	}
	return nil
}

func writeRecords(f *os.File, records []models.Record) error {
	w := bufio.NewWriter(f)
	if err := EncodeRecords(w, records); err != nil {
		return err
	}
	return w.Flush()
}

// Compile-time check: ensure FileRecordStore implements RecordStore
var _ interfaces.RecordStore = (*FileRecordStore)(nil)
