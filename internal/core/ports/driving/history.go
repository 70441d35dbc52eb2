package driving

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// HistoryService exposes the local transfer history.
type HistoryService interface {
	// List returns retained transfers, newest first.
	List(ctx context.Context) ([]domain.TransferLogEntry, error)
}
