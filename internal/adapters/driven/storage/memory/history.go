package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Ensure TransferHistory implements the interface.
var _ driven.TransferHistory = (*TransferHistory)(nil)

// TransferHistory is an in-memory implementation of driven.TransferHistory.
type TransferHistory struct {
	mu         sync.RWMutex
	entries    []domain.TransferLogEntry
	maxEntries int
	now        func() time.Time
}

// NewTransferHistory creates a history that keeps at most maxEntries records.
// A non-positive maxEntries keeps everything.
func NewTransferHistory(maxEntries int) *TransferHistory {
	return &TransferHistory{maxEntries: maxEntries, now: time.Now}
}

// Record appends a transfer result, dropping the oldest records over the cap.
func (h *TransferHistory) Record(_ context.Context, result domain.TransferResult, remotePath string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, domain.TransferLogEntry{
		ID:        uuid.New().String(),
		Dataframe: remotePath,
		Status:    result.Code,
		TaskID:    result.TaskID,
		StartTime: h.now(),
	})
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = append([]domain.TransferLogEntry(nil), h.entries[len(h.entries)-h.maxEntries:]...)
	}
	return nil
}

// List returns retained records, newest first.
func (h *TransferHistory) List(_ context.Context) ([]domain.TransferLogEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.TransferLogEntry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out, nil
}
