package driven

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// ColumnAnalyzer extracts column statistics from tabular files.
type ColumnAnalyzer interface {
	// Supports reports whether the MIME type can be analysed.
	Supports(mimeType string) bool

	// Analyze computes the data dictionary of a file.
	// Unsupported types return (nil, nil). Parse failures return
	// *domain.AnalysisError.
	Analyze(ctx context.Context, path, mimeType string) (*domain.DataDictionary, error)
}
