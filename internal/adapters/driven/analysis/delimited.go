package analysis

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

const readBufferSize = 64 * 1024

// ErrNoHeader is returned for delimited files without a header row.
var ErrNoHeader = errors.New("no header row")

func (a *Analyzer) analyzeDelimited(ctx context.Context, path string, sep rune) (*domain.DataDictionary, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReaderSize(f, readBufferSize))
	r.Comma = sep
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	numCols := len(header)
	cols := make([]*column, 0, min(numCols, maxColumns))
	for _, name := range header[:min(numCols, maxColumns)] {
		cols = append(cols, newColumn(name, ""))
	}

	var rows int64
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		if rows%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rows++
		for i, c := range cols {
			if i < len(record) {
				c.observe(record[i])
			} else {
				c.observeMissing()
			}
		}
	}

	preview, err := a.previewBytes(path)
	if err != nil {
		return nil, err
	}
	return dictionary(cols, rows, numCols, preview), nil
}

// previewBytes counts the bytes of the leading preview lines, newlines
// included.
func (a *Analyzer) previewBytes(path string) (int64, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, readBufferSize)
	var n int64
	for i := 0; i < previewRows; i++ {
		line, err := br.ReadString('\n')
		n += int64(len(line))
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read preview: %w", err)
		}
	}
	return n, nil
}
