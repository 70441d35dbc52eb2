package domain

import (
	"encoding/json"
)

// Hash algorithm names usable in a file manifest.
const (
	HashMD5    = "md5"
	HashSHA1   = "sha1"
	HashSHA224 = "sha224"
	HashSHA256 = "sha256"
	HashSHA384 = "sha384"
	HashSHA512 = "sha512"
)

// DefaultHashAlgorithms are computed when no algorithms are configured.
var DefaultHashAlgorithms = []string{HashSHA256, HashMD5}

// IsHashAlgorithm reports whether name is a supported hash algorithm.
func IsHashAlgorithm(name string) bool {
	switch name {
	case HashMD5, HashSHA1, HashSHA224, HashSHA256, HashSHA384, HashSHA512:
		return true
	default:
		return false
	}
}

// Tabular MIME types understood by the column analyzer.
const (
	MIMETypeTSV     = "text/tab-separated-values"
	MIMETypeCSV     = "text/csv"
	MIMETypeParquet = "application/vnd.apache.parquet"
)

// LocalFile pairs a file on disk with its path relative to the remote
// destination.
type LocalFile struct {
	LocalPath  string
	RemotePath string
}

// FileManifestEntry describes one physical file of a dataset.
// URL is the join key for every comparison.
type FileManifestEntry struct {
	// URL is the file's remote location.
	URL string `json:"url"`

	// Filename is the base name of the file.
	Filename string `json:"filename"`

	// Length is the size in bytes; nil when the local file does not exist.
	Length *int64 `json:"length,omitempty"`

	// Checksums maps hash algorithm name to lowercase hex digest.
	// Serialised as top-level keys.
	Checksums map[string]string `json:"-"`

	// MIMEType is the detected or user-supplied content type.
	MIMEType string `json:"mime_type,omitempty"`

	// DataType is a domain-specific classification tag.
	DataType string `json:"data_type,omitempty"`

	// FieldMetadata holds the column statistics, when analysis ran.
	FieldMetadata *DataDictionary `json:"field_metadata,omitempty"`

	// Extra holds descriptive attributes this client does not model.
	Extra map[string]any `json:"-"`
}

var manifestKeys = map[string]bool{
	"url": true, "filename": true, "length": true,
	"mime_type": true, "data_type": true, "field_metadata": true,
}

type manifestAlias FileManifestEntry

// MarshalJSON flattens checksums and extra attributes into the entry.
func (f FileManifestEntry) MarshalJSON() ([]byte, error) {
	extra := make(map[string]any, len(f.Checksums)+len(f.Extra))
	for k, v := range f.Extra {
		extra[k] = v
	}
	for alg, sum := range f.Checksums {
		extra[alg] = sum
	}
	return marshalWithExtra(manifestAlias(f), extra, manifestKeys)
}

// UnmarshalJSON splits hash keys into Checksums and the remainder into Extra.
func (f *FileManifestEntry) UnmarshalJSON(data []byte) error {
	var alias manifestAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := collectExtra(data, func(k string) bool { return manifestKeys[k] })
	if err != nil {
		return err
	}
	for k, v := range extra {
		s, ok := v.(string)
		if !ok || !IsHashAlgorithm(k) {
			continue
		}
		if alias.Checksums == nil {
			alias.Checksums = make(map[string]string)
		}
		alias.Checksums[k] = s
		delete(extra, k)
	}
	if len(extra) > 0 {
		alias.Extra = extra
	}
	*f = FileManifestEntry(alias)
	return nil
}

// Clone returns a deep copy of the entry.
func (f FileManifestEntry) Clone() FileManifestEntry {
	out := f
	if f.Length != nil {
		n := *f.Length
		out.Length = &n
	}
	if f.Checksums != nil {
		out.Checksums = make(map[string]string, len(f.Checksums))
		for k, v := range f.Checksums {
			out.Checksums[k] = v
		}
	}
	if f.FieldMetadata != nil {
		dd := f.FieldMetadata.Clone()
		out.FieldMetadata = &dd
	}
	out.Extra = cloneMap(f.Extra)
	return out
}

// DataDictionaryName is the fixed name of every data dictionary.
const DataDictionaryName = "Data Dictionary"

// DataDictionary summarises a tabular file and its columns.
type DataDictionary struct {
	Name             string             `json:"name"`
	NumRows          int64              `json:"numrows"`
	NumCols          int                `json:"numcols"`
	PreviewBytes     int64              `json:"previewbytes"`
	FieldDefinitions []ColumnStatistics `json:"field_definitions"`
	Labels           map[string]string  `json:"labels,omitempty"`
}

// Clone returns a deep copy of the dictionary.
func (d DataDictionary) Clone() DataDictionary {
	out := d
	out.FieldDefinitions = make([]ColumnStatistics, len(d.FieldDefinitions))
	copy(out.FieldDefinitions, d.FieldDefinitions)
	if d.Labels != nil {
		out.Labels = make(map[string]string, len(d.Labels))
		for k, v := range d.Labels {
			out.Labels[k] = v
		}
	}
	return out
}

// ColumnLabels captions each statistic key for display.
func ColumnLabels() map[string]string {
	return map[string]string{
		"name":      "Column Name",
		"type":      "Data Type",
		"format":    "Format",
		"count":     "Number of non-null entries",
		"25":        "25th Percentile",
		"50":        "50th Percentile",
		"75":        "75th Percentile",
		"std":       "Standard Deviation",
		"mean":      "Mean Value",
		"min":       "Minimum Value",
		"max":       "Maximum Value",
		"unique":    "Unique Values",
		"top":       "Top Common",
		"frequency": "Frequency of Top Common Value",
	}
}

// Column types reported in ColumnStatistics.Type.
const (
	ColumnTypeString  = "string"
	ColumnTypeInt64   = "int64"
	ColumnTypeFloat64 = "float64"
	ColumnTypeBool    = "bool"
)

// ColumnStatistics describes one tabular column. Optional statistics are
// nil when undefined and are omitted from JSON.
type ColumnStatistics struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Format    string   `json:"format,omitempty"`
	Count     int64    `json:"count"`
	Unique    *int64   `json:"unique,omitempty"`
	Top       any      `json:"top,omitempty"`
	Frequency *int64   `json:"frequency,omitempty"`
	P25       *float64 `json:"25,omitempty"`
	P50       *float64 `json:"50,omitempty"`
	P75       *float64 `json:"75,omitempty"`
	Mean      *float64 `json:"mean,omitempty"`
	Std       *float64 `json:"std,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
}
