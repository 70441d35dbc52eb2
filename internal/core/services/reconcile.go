package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Reconciler merges a freshly scraped record with the previously
// published one and user overrides.
type Reconciler struct {
	required []string
	now      func() time.Time
}

// NewReconciler creates a reconciler. Violations on the required fields
// are reported as missing-required-fields errors.
func NewReconciler(required []string) *Reconciler {
	return &Reconciler{required: required, now: time.Now}
}

// Reconcile returns the record to publish.
//
// With no previous record the scraped record is used as-is. When the files
// changed, the previous bibliographic block is the base, formats are taken
// from the scrape, the version is bumped by one and an Updated event is
// appended. When the files are unchanged, the scraped bibliographic block is
// used with version and dated events carried verbatim from the previous
// record, so repeated reconciliation never bumps the version.
func (r *Reconciler) Reconcile(
	scraped domain.StructuredRecord,
	previous *domain.StructuredRecord,
	overrides map[string]any,
) (domain.StructuredRecord, error) {
	rec := scraped.Clone()

	if previous != nil {
		prev := previous.Clone()

		// 1. Content-change detection
		changed := FilesModified(scraped.Files, prev.Files)

		// 2. Version handling
		if changed {
			version, err := strconv.Atoi(prev.DC.Version)
			if err != nil {
				return rec, &domain.ValidationError{Field: "version", Message: "previous version is not a number"}
			}
			dc := prev.DC.Clone()
			dc.Formats = rec.DC.Formats
			dc.Version = strconv.Itoa(version + 1)
			dc.Dates = append(dc.Dates, domain.DateEvent{
				DateType: domain.DateTypeUpdated,
				Date:     r.now().UTC().Format(TimestampLayout),
			})
			rec.DC = dc
			logger.Debug("files changed, version %s -> %s", prev.DC.Version, dc.Version)
		} else {
			rec.DC.Version = prev.DC.Version
			rec.DC.Dates = prev.DC.Dates
			if len(rec.DC.Descriptions) == 0 {
				rec.DC.Descriptions = prev.DC.Descriptions
			}
			for k, v := range prev.DC.Extra {
				if _, ok := rec.DC.Extra[k]; ok {
					continue
				}
				if rec.DC.Extra == nil {
					rec.DC.Extra = make(map[string]any)
				}
				rec.DC.Extra[k] = v
			}
			logger.Debug("files unchanged, keeping version %s", prev.DC.Version)
		}

		// 3. Field carry-over
		rec.Files = CarryOver(rec.Files, prev.Files)
		rec.ProjectMetadata = mergeProjectMetadata(prev.ProjectMetadata, rec.ProjectMetadata)
	}

	// 4. User overrides
	if err := applyOverrides(&rec, overrides); err != nil {
		return rec, err
	}

	// 5. Validation
	if err := Validate(rec, r.required); err != nil {
		return rec, err
	}
	return rec, nil
}

// FilesModified reports whether two manifests describe different content.
// Manifests are equal when their url sets match and every shared entry has
// the same url, filename, length and hashes. Descriptive fields are ignored.
func FilesModified(a, b []domain.FileManifestEntry) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}

	left := indexByURL(a)
	right := indexByURL(b)
	if !sameKeys(left, right) {
		return true
	}

	for url, l := range left {
		r := right[url]
		if l.URL != r.URL || l.Filename != r.Filename || !equalLength(l.Length, r.Length) {
			return true
		}
		if !equalChecksums(l.Checksums, r.Checksums) {
			return true
		}
	}
	return false
}

// CarryOver copies the prior mime_type and data_type onto matching new
// entries that do not set them. Nothing is carried when the url sets differ.
func CarryOver(newFiles, oldFiles []domain.FileManifestEntry) []domain.FileManifestEntry {
	if len(newFiles) == 0 || len(oldFiles) == 0 {
		return newFiles
	}
	old := indexByURL(oldFiles)
	if !sameKeys(indexByURL(newFiles), old) {
		logger.Debug("file set changed, skipping carry-over")
		return newFiles
	}

	out := make([]domain.FileManifestEntry, len(newFiles))
	for i, entry := range newFiles {
		prior := old[entry.URL]
		if prior.MIMEType != "" && entry.MIMEType == "" {
			entry.MIMEType = prior.MIMEType
		}
		if prior.DataType != "" && entry.DataType == "" {
			entry.DataType = prior.DataType
		}
		out[i] = entry
	}
	return out
}

// MetadataModified reports whether next differs from prev. Files and
// project metadata must match exactly, bibliographic fields other than
// dates must match exactly, and dated events are compared by count and
// dateType only.
func MetadataModified(next domain.StructuredRecord, prev *domain.StructuredRecord) bool {
	if prev == nil {
		return true
	}
	if !jsonEqual(nonNilFiles(next.Files), nonNilFiles(prev.Files)) {
		return true
	}
	if !jsonEqual(nonNilMap(next.ProjectMetadata), nonNilMap(prev.ProjectMetadata)) {
		return true
	}

	nextDC, prevDC := next.DC.Clone(), prev.DC.Clone()
	nextDC.Dates, prevDC.Dates = nil, nil
	if !jsonEqual(nextDC, prevDC) {
		return true
	}

	if len(next.DC.Dates) != len(prev.DC.Dates) {
		return true
	}
	for i := range next.DC.Dates {
		if next.DC.Dates[i].DateType != prev.DC.Dates[i].DateType {
			return true
		}
	}
	return false
}

func mergeProjectMetadata(prev, scraped map[string]any) map[string]any {
	out := make(map[string]any, len(prev)+len(scraped))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range scraped {
		out[k] = v
	}
	return out
}

func indexByURL(files []domain.FileManifestEntry) map[string]domain.FileManifestEntry {
	m := make(map[string]domain.FileManifestEntry, len(files))
	for _, f := range files {
		m[f.URL] = f
	}
	return m
}

func sameKeys(a, b map[string]domain.FileManifestEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func equalLength(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalChecksums(a, b map[string]string) bool {
	for alg, sum := range a {
		if b[alg] != sum {
			return false
		}
	}
	for alg, sum := range b {
		if a[alg] != sum {
			return false
		}
	}
	return true
}

func nonNilFiles(files []domain.FileManifestEntry) []domain.FileManifestEntry {
	if files == nil {
		return []domain.FileManifestEntry{}
	}
	return files
}

func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// jsonEqual compares values by their canonical JSON encoding.
func jsonEqual(a, b any) bool {
	ja, errA := canonicalJSON(a)
	jb, errB := canonicalJSON(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// canonicalJSON encodes v, then decodes and re-encodes it so numbers and
// key order do not depend on the Go types that produced them.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
