// Package analysis computes column statistics for tabular dataframes.
//
// Delimited text is streamed through a buffered CSV reader and parquet
// files are read row group by row group, so memory grows with the number of
// distinct values rather than the file size.
package analysis

import (
	"context"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Ensure Analyzer implements the interface.
var _ driven.ColumnAnalyzer = (*Analyzer)(nil)

const (
	// maxColumns caps the columns described per file.
	maxColumns = 10

	// previewRows is the number of leading lines counted as preview.
	previewRows = 11
)

// Analyzer builds data dictionaries from tabular files.
type Analyzer struct {
	fs afero.Fs
}

// New creates an analyzer reading from the OS filesystem.
func New() *Analyzer {
	return NewWithFS(afero.NewOsFs())
}

// NewWithFS creates an analyzer reading from fs.
func NewWithFS(fs afero.Fs) *Analyzer {
	return &Analyzer{fs: fs}
}

// Supports reports whether mimeType is a tabular format.
func (a *Analyzer) Supports(mimeType string) bool {
	switch baseType(mimeType) {
	case domain.MIMETypeTSV, domain.MIMETypeCSV, domain.MIMETypeParquet:
		return true
	default:
		return false
	}
}

// Analyze computes the data dictionary of the file at path.
func (a *Analyzer) Analyze(ctx context.Context, path, mimeType string) (*domain.DataDictionary, error) {
	var (
		dd  *domain.DataDictionary
		err error
	)
	switch baseType(mimeType) {
	case domain.MIMETypeTSV:
		dd, err = a.analyzeDelimited(ctx, path, '\t')
	case domain.MIMETypeCSV:
		dd, err = a.analyzeDelimited(ctx, path, ',')
	case domain.MIMETypeParquet:
		dd, err = a.analyzeParquet(ctx, path)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, &domain.AnalysisError{Path: path, Err: err}
	}
	logger.Debug("analysed %s: %d rows, %d columns", path, dd.NumRows, dd.NumCols)
	return dd, nil
}

// dictionary assembles the data dictionary from the accumulated columns.
func dictionary(cols []*column, numRows int64, numCols int, previewBytes int64) *domain.DataDictionary {
	defs := make([]domain.ColumnStatistics, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, c.statistics())
	}
	return &domain.DataDictionary{
		Name:             domain.DataDictionaryName,
		NumRows:          numRows,
		NumCols:          numCols,
		PreviewBytes:     previewBytes,
		FieldDefinitions: defs,
		Labels:           domain.ColumnLabels(),
	}
}

func baseType(mimeType string) string {
	t, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
