package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the upload tests ---

// mockTransfer implements driven.TransferClient over a fixed set of
// remote directories.
type mockTransfer struct {
	mu        sync.Mutex
	dirs      map[string]bool
	listErr   error
	submitErr error
	submitted []domain.TransferRequest
}

func newMockTransfer(dirs ...string) *mockTransfer {
	m := &mockTransfer{dirs: make(map[string]bool)}
	for _, d := range dirs {
		m.dirs[d] = true
	}
	return m
}

func (m *mockTransfer) List(_ context.Context, path string) ([]domain.DirEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if !m.dirs[path] {
		return nil, &domain.TransferError{Code: domain.TransferCodeNotFound, Message: path + " not found"}
	}
	return []domain.DirEntry{}, nil
}

func (m *mockTransfer) SubmitTransfer(_ context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = append(m.submitted, req)
	return &domain.TransferResult{
		TaskID:  fmt.Sprintf("task-%d", len(m.submitted)),
		Code:    "Accepted",
		Message: "The transfer has been accepted",
	}, nil
}

func (m *mockTransfer) submissions() []domain.TransferRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TransferRequest(nil), m.submitted...)
}

// mockTransfers implements driven.TransferClients.
type mockTransfers map[string]driven.TransferClient

func (m mockTransfers) For(protocol string) (driven.TransferClient, error) {
	c, ok := m[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProtocolNotConfigured, protocol)
	}
	return c, nil
}

// mockSearch implements driven.SearchClient. Successful ingests become
// visible to later GetSubject calls, round-tripped through JSON.
type mockSearch struct {
	mu        sync.Mutex
	records   map[string][]byte
	ingested  []domain.IngestDocument
	states    []string
	getErr    error
	ingestErr error
	pending   []domain.CatalogEntry
}

func newMockSearch() *mockSearch {
	return &mockSearch{records: make(map[string][]byte)}
}

func (m *mockSearch) publish(subject string, rec domain.StructuredRecord) {
	raw, err := json.Marshal(rec)
	if err != nil {
		panic(err)
	}
	m.records[subject] = raw
}

func (m *mockSearch) GetSubject(_ context.Context, _, subject string) (*domain.StructuredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	raw, ok := m.records[subject]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var rec domain.StructuredRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *mockSearch) Ingest(_ context.Context, _ string, doc domain.IngestDocument) (*domain.IngestTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	m.ingested = append(m.ingested, doc)
	m.pending = append(m.pending, doc.IngestData.GMeta...)
	return &domain.IngestTask{TaskID: fmt.Sprintf("ingest-%d", len(m.ingested))}, nil
}

func (m *mockSearch) GetTask(_ context.Context, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := domain.TaskSuccess
	if len(m.states) > 0 {
		state, m.states = m.states[0], m.states[1:]
	}
	if state == domain.TaskSuccess {
		for _, e := range m.pending {
			m.publish(e.Subject, e.Content)
		}
		m.pending = nil
	}
	return &domain.Task{TaskID: taskID, State: state}, nil
}

func (m *mockSearch) ingestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ingested)
}
