// Package file provides a JSON-file implementation of the metadata ledger.
// The whole ledger is rewritten on every mutation; there is no append log.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/logger"
)

// Ensure Ledger implements the interface.
var _ driven.MetadataLedger = (*Ledger)(nil)

// LedgerFilename is the name of the ledger file inside the data directory.
const LedgerFilename = "metadata.json"

// Ledger is a file-backed metadata ledger. All contents are held in memory
// and flushed to disk on every mutation; the file is the source of truth
// and is reloaded on construction.
type Ledger struct {
	mu       sync.Mutex
	filePath string
	records  map[string]domain.DocumentMetadata
}

// NewLedger opens the ledger in dataDir, creating the directory if needed.
// A missing ledger file starts empty. An unreadable or corrupt file also
// starts empty, with a warning: losing the warning would silently pretend
// old documents never existed, crashing would make startup depend on one
// bad file.
func NewLedger(dataDir string) (*Ledger, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	l := &Ledger{
		filePath: filepath.Join(dataDir, LedgerFilename),
		records:  make(map[string]domain.DocumentMetadata),
	}
	l.load()
	return l, nil
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.filePath
}

// load reads the durable representation into memory.
func (l *Ledger) load() {
	data, err := os.ReadFile(l.filePath)
	if os.IsNotExist(err) {
		logger.Debug("No existing ledger file at %s", l.filePath)
		return
	}
	if err != nil {
		logger.Warn("Ledger file %s unreadable, starting empty: %v", l.filePath, err)
		return
	}

	var records map[string]domain.DocumentMetadata
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Ledger file %s corrupt, starting empty: %v", l.filePath, err)
		return
	}

	l.records = records
	if l.records == nil {
		l.records = make(map[string]domain.DocumentMetadata)
	}
	logger.Debug("Loaded %d documents from ledger", len(l.records))
}

// save rewrites the durable representation. Caller must hold l.mu.
// The write goes through a temp file and a rename so a crash mid-write
// never leaves a truncated ledger behind.
func (l *Ledger) save() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling ledger: %w", err)
	}

	tmp := l.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := os.Rename(tmp, l.filePath); err != nil {
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}

// Add upserts a document record and persists immediately.
func (l *Ledger) Add(_ context.Context, meta domain.DocumentMetadata) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[meta.DocumentID] = meta
	return l.save()
}

// Get retrieves a record by document ID.
func (l *Ledger) Get(_ context.Context, documentID string) (*domain.DocumentMetadata, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	meta, ok := l.records[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &meta, nil
}

// GetAll returns every record, in no particular order.
func (l *Ledger) GetAll(_ context.Context) ([]domain.DocumentMetadata, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.DocumentMetadata, 0, len(l.records))
	for _, meta := range l.records {
		out = append(out, meta)
	}
	return out, nil
}

// Delete removes a record if present and reports whether it existed.
func (l *Ledger) Delete(_ context.Context, documentID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.records[documentID]; !ok {
		return false, nil
	}
	delete(l.records, documentID)
	if err := l.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes every record and persists.
func (l *Ledger) Clear(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = make(map[string]domain.DocumentMetadata)
	return l.save()
}
