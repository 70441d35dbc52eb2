package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// RecordStore caches the last record this client published per subject.
type RecordStore interface {
	// Save stores or replaces the record for a subject.
	Save(ctx context.Context, subject string, record domain.StructuredRecord) error

	// Get retrieves the record for a subject.
	// Returns domain.ErrNotFound if none is cached.
	Get(ctx context.Context, subject string) (*domain.StructuredRecord, error)

	// Delete removes the record for a subject.
	Delete(ctx context.Context, subject string) error
}
