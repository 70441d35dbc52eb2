package domain

import (
	"encoding/json"
)

// Date types used in the bibliographic dated-event list.
const (
	DateTypeCreated = "Created"
	DateTypeUpdated = "Updated"
)

// DescriptionTypeOther is the description type assigned to free-text
// descriptions supplied by the user.
const DescriptionTypeOther = "Other"

// StructuredRecord is the top-level published unit for one dataset.
type StructuredRecord struct {
	// DC is the bibliographic block.
	DC Bibliographic `json:"dc"`

	// Files is the ordered file manifest.
	Files []FileManifestEntry `json:"files"`

	// ProjectMetadata holds domain fields outside the bibliographic schema.
	ProjectMetadata map[string]any `json:"project_metadata"`
}

// Title is a single bibliographic title.
type Title struct {
	Title string `json:"title"`
}

// Creator is a single bibliographic creator.
type Creator struct {
	CreatorName string `json:"creatorName"`
}

// Subject is a single bibliographic subject keyword.
type Subject struct {
	Subject string `json:"subject"`
}

// ResourceType classifies the published resource.
type ResourceType struct {
	ResourceType        string `json:"resourceType"`
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
}

// DateEvent is one entry in the dated-event list.
type DateEvent struct {
	DateType string `json:"dateType"`
	Date     string `json:"date"`
}

// Description is a free-text description of the dataset.
type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"descriptionType"`
}

// Bibliographic is the citation-style metadata attached to every record.
type Bibliographic struct {
	Titles          []Title       `json:"titles,omitempty"`
	Creators        []Creator     `json:"creators,omitempty"`
	Subjects        []Subject     `json:"subjects,omitempty"`
	PublicationYear string        `json:"publicationYear,omitempty"`
	Publisher       string        `json:"publisher,omitempty"`
	ResourceType    *ResourceType `json:"resourceType,omitempty"`
	Dates           []DateEvent   `json:"dates,omitempty"`
	Formats         []string      `json:"formats,omitempty"`
	Version         string        `json:"version,omitempty"`
	Descriptions    []Description `json:"descriptions,omitempty"`

	// Extra holds bibliographic keys this client does not model.
	// They are preserved verbatim on round-trip.
	Extra map[string]any `json:"-"`
}

var bibliographicKeys = map[string]bool{
	"titles": true, "creators": true, "subjects": true, "publicationYear": true,
	"publisher": true, "resourceType": true, "dates": true, "formats": true,
	"version": true, "descriptions": true,
}

type bibliographicAlias Bibliographic

// MarshalJSON flattens Extra alongside the modelled fields.
func (b Bibliographic) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(bibliographicAlias(b), b.Extra, bibliographicKeys)
}

// UnmarshalJSON collects unmodelled keys into Extra.
func (b *Bibliographic) UnmarshalJSON(data []byte) error {
	var alias bibliographicAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	extra, err := collectExtra(data, func(k string) bool { return bibliographicKeys[k] })
	if err != nil {
		return err
	}
	alias.Extra = extra
	*b = Bibliographic(alias)
	return nil
}

// Title returns the first title, or empty.
func (b Bibliographic) Title() string {
	if len(b.Titles) == 0 {
		return ""
	}
	return b.Titles[0].Title
}

// Clone returns a deep copy of the bibliographic block.
func (b Bibliographic) Clone() Bibliographic {
	out := b
	out.Titles = append([]Title(nil), b.Titles...)
	out.Creators = append([]Creator(nil), b.Creators...)
	out.Subjects = append([]Subject(nil), b.Subjects...)
	out.Dates = append([]DateEvent(nil), b.Dates...)
	out.Formats = append([]string(nil), b.Formats...)
	out.Descriptions = append([]Description(nil), b.Descriptions...)
	if b.ResourceType != nil {
		rt := *b.ResourceType
		out.ResourceType = &rt
	}
	out.Extra = cloneMap(b.Extra)
	return out
}

// Clone returns a deep copy of the record.
func (r StructuredRecord) Clone() StructuredRecord {
	out := StructuredRecord{
		DC:              r.DC.Clone(),
		ProjectMetadata: cloneMap(r.ProjectMetadata),
	}
	if r.Files != nil {
		out.Files = make([]FileManifestEntry, len(r.Files))
		for i, f := range r.Files {
			out.Files[i] = f.Clone()
		}
	}
	return out
}

// marshalWithExtra encodes v and merges extra keys that do not collide with
// known ones. Keys are emitted in sorted order.
func marshalWithExtra(v any, extra map[string]any, known map[string]bool) ([]byte, error) {
	base, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if known[k] {
			continue
		}
		if _, taken := merged[k]; taken {
			continue
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// collectExtra returns every top-level key of data not accepted by isKnown.
func collectExtra(data []byte, isKnown func(string) bool) (map[string]any, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	var extra map[string]any
	for k, raw := range all {
		if isKnown(k) {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, nil
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
