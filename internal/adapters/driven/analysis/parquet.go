package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

const rowBatchSize = 256

func (a *Analyzer) analyzeParquet(ctx context.Context, path string) (*domain.DataDictionary, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	schema := pf.Schema()
	paths := schema.Columns()
	numCols := len(paths)

	// Leaf column index to accumulator, first maxColumns leaves only.
	cols := make([]*column, 0, min(numCols, maxColumns))
	byLeaf := make(map[int]*column, cap(cols))
	for _, p := range paths[:min(numCols, maxColumns)] {
		leaf, ok := schema.Lookup(p...)
		if !ok {
			continue
		}
		c := newColumn(strings.Join(p, "."), declaredType(leaf.Node.Type().Kind()))
		cols = append(cols, c)
		byLeaf[leaf.ColumnIndex] = c
	}

	var rows int64
	buf := make([]parquet.Row, rowBatchSize)
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := readRowGroup(rg, buf, byLeaf)
		rows += n
		if err != nil {
			return nil, err
		}
	}

	return dictionary(cols, rows, numCols, 0), nil
}

func readRowGroup(rg parquet.RowGroup, buf []parquet.Row, byLeaf map[int]*column) (int64, error) {
	rs := rg.Rows()
	defer rs.Close()

	var rows int64
	for {
		n, err := rs.ReadRows(buf)
		for _, row := range buf[:n] {
			observeRow(row, byLeaf)
		}
		rows += int64(n)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("read rows: %w", err)
		}
	}
}

// observeRow feeds the first value of each tracked leaf to its column.
func observeRow(row parquet.Row, byLeaf map[int]*column) {
	seen := make(map[int]bool, len(byLeaf))
	for _, v := range row {
		idx := v.Column()
		c, ok := byLeaf[idx]
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		if v.IsNull() {
			c.observeMissing()
			continue
		}
		c.observeValue(formatValue(v))
	}
}

// declaredType maps a physical parquet type onto a column type.
func declaredType(k parquet.Kind) string {
	switch k {
	case parquet.Boolean:
		return domain.ColumnTypeBool
	case parquet.Int32, parquet.Int64:
		return domain.ColumnTypeInt64
	case parquet.Float, parquet.Double:
		return domain.ColumnTypeFloat64
	default:
		return domain.ColumnTypeString
	}
}

func formatValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
