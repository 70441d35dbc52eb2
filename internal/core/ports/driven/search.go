package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// SearchClient talks to the catalog search index.
type SearchClient interface {
	// GetSubject fetches the published record at a subject.
	// Returns domain.ErrNotFound if the subject has no entry.
	GetSubject(ctx context.Context, index, subject string) (*domain.StructuredRecord, error)

	// Ingest submits a document for asynchronous indexing.
	Ingest(ctx context.Context, index string, doc domain.IngestDocument) (*domain.IngestTask, error)

	// GetTask reports the state of an ingest task.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
}
