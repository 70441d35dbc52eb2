package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// LocalFiles reads the local files being uploaded.
type LocalFiles interface {
	// Enumerate expands a file or directory into the files it contains.
	// A single file maps to its base name; files under a directory map to
	// "<dirname>/<relative path>". Results are in lexical order.
	Enumerate(ctx context.Context, path string) ([]domain.LocalFile, error)

	// Checksum returns the lowercase hex digest of a file.
	// Unknown algorithms return domain.ErrUnsupportedHash.
	Checksum(ctx context.Context, path, algorithm string) (string, error)

	// Size returns the file size and whether the file exists.
	Size(path string) (int64, bool, error)

	// DetectMIME guesses the content type from extension and content.
	DetectMIME(path string) (string, error)

	// Abs resolves a path to an absolute path.
	Abs(path string) (string, error)
}
