package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// defaultFormat is the table-schema format reported for every column.
const defaultFormat = "default"

// missingMarkers are the cell values treated as missing.
var missingMarkers = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "-NaN": true, "-nan": true,
	"1.#IND": true, "1.#QNAN": true, "<NA>": true, "N/A": true,
	"NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

var boolLiterals = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"false": false, "False": false, "FALSE": false,
}


// column accumulates the observed values of one field. Values are kept as
// distinct-value counts, so memory is bounded by the column's cardinality.
type column struct {
	name string

	// declared forces the type for self-describing formats. Empty means
	// the type is inferred from the values.
	declared string

	missing int64
	present int64

	counts map[string]int64
	order  []string
	nums   moments

	allInt  bool
	allNum  bool
	allBool bool
}

func newColumn(name, declared string) *column {
	return &column{
		name:     name,
		declared: declared,
		counts:   make(map[string]int64),
		allInt:   true,
		allNum:   true,
		allBool:  true,
	}
}

// observe records one raw cell.
func (c *column) observe(raw string) {
	if missingMarkers[raw] {
		c.missing++
		return
	}
	c.observeValue(raw)
}

// observeValue records a value already known to be present.
func (c *column) observeValue(v string) {
	c.present++
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++

	if c.declared != "" && !isNumericType(c.declared) {
		return
	}
	if c.declared != "" || c.allNum {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.nums.add(f)
		} else {
			c.allNum = false
		}
	}
	if c.declared != "" {
		return
	}
	if c.allInt {
		if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
			c.allInt = false
		}
	}
	if c.allBool {
		if _, ok := boolLiterals[v]; !ok {
			c.allBool = false
		}
	}
}

// observeMissing records a missing cell.
func (c *column) observeMissing() {
	c.missing++
}

func isNumericType(t string) bool {
	return t == domain.ColumnTypeInt64 || t == domain.ColumnTypeFloat64
}

// kind resolves the column type.
func (c *column) kind() string {
	if c.declared != "" {
		if c.declared == domain.ColumnTypeInt64 && c.missing > 0 {
			return domain.ColumnTypeFloat64
		}
		return c.declared
	}
	switch {
	case c.present == 0:
		return domain.ColumnTypeFloat64
	case c.allInt && c.missing == 0:
		return domain.ColumnTypeInt64
	case c.allNum:
		return domain.ColumnTypeFloat64
	case c.allBool && c.missing == 0:
		return domain.ColumnTypeBool
	default:
		return domain.ColumnTypeString
	}
}

// statistics summarises the column.
func (c *column) statistics() domain.ColumnStatistics {
	st := domain.ColumnStatistics{
		Name:   c.name,
		Type:   c.kind(),
		Format: defaultFormat,
		Count:  c.present,
	}
	if isNumericType(st.Type) {
		c.numeric(&st)
	} else {
		c.categorical(&st)
	}
	return st
}

func (c *column) categorical(st *domain.ColumnStatistics) {
	if len(c.order) == 0 {
		return
	}

	// Ties go to the value seen first.
	top := c.order[0]
	for _, v := range c.order[1:] {
		if c.counts[v] > c.counts[top] {
			top = v
		}
	}

	unique := int64(len(c.order))
	freq := c.counts[top]
	st.Unique = &unique
	st.Frequency = &freq
	if st.Type == domain.ColumnTypeBool {
		st.Top = boolLiterals[top]
	} else {
		st.Top = top
	}
}

// numeric fills the summary from the finite values only. NaN and infinities
// have no JSON encoding and are left out like missing cells.
func (c *column) numeric(st *domain.ColumnStatistics) {
	m := c.nums
	st.Count = m.n
	if m.n == 0 {
		return
	}

	dist := c.distribution()
	setFinite(&st.Mean, m.mean)
	setFinite(&st.Min, m.min)
	setFinite(&st.Max, m.max)
	setFinite(&st.P25, quantile(dist, m.n, 0.25))
	setFinite(&st.P50, quantile(dist, m.n, 0.50))
	setFinite(&st.P75, quantile(dist, m.n, 0.75))
	if m.n >= 2 {
		setFinite(&st.Std, math.Sqrt(m.m2/float64(m.n-1)))
	}
}

// weighted is a distinct finite value and the number of times it occurred.
type weighted struct {
	v float64
	n int64
}

// distribution folds the distinct raw values into sorted finite numbers.
func (c *column) distribution() []weighted {
	byValue := make(map[float64]int64, len(c.order))
	for _, raw := range c.order {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || !isFinite(f) {
			continue
		}
		byValue[f] += c.counts[raw]
	}
	dist := make([]weighted, 0, len(byValue))
	for v, n := range byValue {
		dist = append(dist, weighted{v: v, n: n})
	}
	sort.Slice(dist, func(i, j int) bool { return dist[i].v < dist[j].v })
	return dist
}

// quantile interpolates linearly between the closest ranks of the sorted
// distribution holding total values.
func quantile(dist []weighted, total int64, q float64) float64 {
	pos := q * float64(total-1)
	lo := int64(math.Floor(pos))
	hi := int64(math.Ceil(pos))
	vlo := valueAtRank(dist, lo)
	if lo == hi {
		return vlo
	}
	frac := pos - float64(lo)
	return vlo + (valueAtRank(dist, hi)-vlo)*frac
}

func valueAtRank(dist []weighted, rank int64) float64 {
	var seen int64
	for _, w := range dist {
		seen += w.n
		if rank < seen {
			return w.v
		}
	}
	return dist[len(dist)-1].v
}

// moments tracks count, extremes and variance in one pass (Welford).
type moments struct {
	n        int64
	mean, m2 float64
	min, max float64
}

func (m *moments) add(f float64) {
	if !isFinite(f) {
		return
	}
	m.n++
	if m.n == 1 {
		m.min, m.max = f, f
	} else {
		m.min = math.Min(m.min, f)
		m.max = math.Max(m.max, f)
	}
	d := f - m.mean
	m.mean += d / float64(m.n)
	m.m2 += d * (f - m.mean)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// setFinite sets *dst only when v has a JSON encoding.
func setFinite(dst **float64, v float64) {
	if isFinite(v) {
		*dst = &v
	}
}
