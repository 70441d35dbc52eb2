package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.StructuredRecord
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.StructuredRecord),
	}
}

// Save stores or replaces the record for a subject.
func (s *RecordStore) Save(_ context.Context, subject string, record domain.StructuredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[subject] = record.Clone()
	return nil
}

// Get retrieves the record for a subject.
func (s *RecordStore) Get(_ context.Context, subject string) (*domain.StructuredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[subject]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := rec.Clone()
	return &clone, nil
}

// Delete removes the record for a subject.
func (s *RecordStore) Delete(_ context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, subject)
	return nil
}
