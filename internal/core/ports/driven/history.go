package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// TransferHistory is the append-only local log of submitted transfers.
// Implementations cap retention, discarding the oldest records first.
type TransferHistory interface {
	// Record appends a transfer result for a remote short path.
	Record(ctx context.Context, result domain.TransferResult, remotePath string) error

	// List returns all retained records, newest first.
	List(ctx context.Context) ([]domain.TransferLogEntry, error)
}
