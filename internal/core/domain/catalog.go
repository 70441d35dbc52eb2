package domain

import "fmt"

// Catalog wire constants.
const (
	// GMetaVersion is the envelope schema version understood by the catalog.
	GMetaVersion = "2016-11-09"

	// GMetaIngestType is the ingest type for a list of entries.
	GMetaIngestType = "GMetaList"

	// CatalogEntryID tags every entry this client publishes.
	CatalogEntryID = "metadata"

	// PrincipalPublic is passed through unchanged in access lists.
	PrincipalPublic = "public"

	groupURNPrefix = "urn:globus:groups:id:%s"
)

// GroupURN expands a principal to the group URN form.
// PrincipalPublic is returned unchanged.
func GroupURN(principal string) string {
	if principal == PrincipalPublic {
		return principal
	}
	return fmt.Sprintf(groupURNPrefix, principal)
}

// CatalogEntry is one published entry in the search index.
type CatalogEntry struct {
	Version   string           `json:"@version"`
	Subject   string           `json:"subject"`
	VisibleTo []string         `json:"visible_to"`
	Content   StructuredRecord `json:"content"`
	ID        string           `json:"id"`
}

// IngestData is the inner list of an ingest document.
type IngestData struct {
	Version string         `json:"@version"`
	GMeta   []CatalogEntry `json:"gmeta"`
}

// IngestDocument is the envelope submitted to the search index.
type IngestDocument struct {
	Version    string     `json:"@version"`
	IngestType string     `json:"ingest_type"`
	IngestData IngestData `json:"ingest_data"`
}

// NewIngestDocument wraps entries into a fresh ingest envelope.
func NewIngestDocument(entries ...CatalogEntry) IngestDocument {
	gmeta := make([]CatalogEntry, len(entries))
	copy(gmeta, entries)
	return IngestDocument{
		Version:    GMetaVersion,
		IngestType: GMetaIngestType,
		IngestData: IngestData{
			Version: GMetaVersion,
			GMeta:   gmeta,
		},
	}
}

// Task states reported by the search service.
const (
	TaskPending  = "PENDING"
	TaskProgress = "PROGRESS"
	TaskSuccess  = "SUCCESS"
)

// IngestTask is the handle returned for a submitted ingest.
type IngestTask struct {
	TaskID string `json:"task_id"`
}

// Task is the status of an asynchronous ingest.
type Task struct {
	TaskID string `json:"task_id"`
	State  string `json:"state"`
}

// Pending reports whether the task has not yet reached a terminal state.
func (t Task) Pending() bool {
	return t.State == TaskPending || t.State == TaskProgress
}
