package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// TransferClient moves files to remote storage.
// Transport failures are returned as *domain.TransferError so callers can
// inspect the machine-readable code.
type TransferClient interface {
	// List returns the entries of a remote directory.
	// A missing directory yields a TransferError with code
	// domain.TransferCodeNotFound.
	List(ctx context.Context, path string) ([]domain.DirEntry, error)

	// SubmitTransfer starts moving the requested files.
	SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}

// TransferClients selects the transfer client for a protocol.
type TransferClients interface {
	// For returns the client serving protocol.
	// Returns domain.ErrProtocolNotConfigured when none is registered.
	For(protocol string) (TransferClient, error)
}
