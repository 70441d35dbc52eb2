package services

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes the local transfer log.
type HistoryService struct {
	history driven.TransferHistory
}

// NewHistoryService creates a new history service.
func NewHistoryService(history driven.TransferHistory) *HistoryService {
	return &HistoryService{history: history}
}

// List returns retained transfers, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.TransferLogEntry, error) {
	return s.history.List(ctx)
}
