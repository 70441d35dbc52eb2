package globus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Ensure SearchClient implements the interface.
var _ driven.SearchClient = (*SearchClient)(nil)

// SearchClient talks to the Search API.
type SearchClient struct {
	api *apiClient
}

// subjectResponse covers both the entry list and the legacy content list
// forms of a subject lookup.
type subjectResponse struct {
	Entries []struct {
		EntryID string          `json:"entry_id"`
		Content json.RawMessage `json:"content"`
	} `json:"entries"`
	Content []json.RawMessage `json:"content"`
}

// NewSearchClient creates a Search API client.
func NewSearchClient(cfg Config) *SearchClient {
	return &SearchClient{api: newAPIClient(cfg)}
}

// GetSubject fetches the record published at subject.
func (c *SearchClient) GetSubject(ctx context.Context, index, subject string) (*domain.StructuredRecord, error) {
	var resp subjectResponse
	path := "/v1/index/" + url.PathEscape(index) + "/subject"
	err := c.api.do(ctx, http.MethodGet, path, url.Values{"subject": {subject}}, nil, &resp)
	if err != nil {
		var te *domain.TransferError
		if errors.As(err, &te) && (te.Code == domain.TransferCodeNotFound || te.Code == "NotFound.Generic") {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	raw := firstContent(resp)
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	var rec domain.StructuredRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", subject, err)
	}
	return &rec, nil
}

// Ingest submits doc for indexing.
func (c *SearchClient) Ingest(ctx context.Context, index string, doc domain.IngestDocument) (*domain.IngestTask, error) {
	var task domain.IngestTask
	path := "/v1/index/" + url.PathEscape(index) + "/ingest"
	if err := c.api.do(ctx, http.MethodPost, path, nil, doc, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask reports the state of an ingest task.
func (c *SearchClient) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	var task domain.Task
	if err := c.api.do(ctx, http.MethodGet, "/v1/task/"+url.PathEscape(taskID), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// firstContent prefers the entry tagged with this client's entry id.
func firstContent(resp subjectResponse) json.RawMessage {
	for _, e := range resp.Entries {
		if e.EntryID == domain.CatalogEntryID && len(e.Content) > 0 {
			return e.Content
		}
	}
	if len(resp.Entries) > 0 && len(resp.Entries[0].Content) > 0 {
		return resp.Entries[0].Content
	}
	if len(resp.Content) > 0 {
		return resp.Content[0]
	}
	return nil
}
