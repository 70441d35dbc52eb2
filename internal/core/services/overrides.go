package services

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// bibField is a user-settable bibliographic field.
type bibField int

const (
	bibTitle bibField = iota
	bibDescriptions
	bibCreators
	bibFormats
	bibPublisher
	bibSubjects
	bibPublicationYear
	bibResourceType
	bibDates
	bibVersion
)

// bibFields maps override keys to the bibliographic field they set.
var bibFields = map[string]bibField{
	"title":           bibTitle,
	"description":     bibDescriptions,
	"descriptions":    bibDescriptions,
	"creators":        bibCreators,
	"mime_type":       bibFormats,
	"formats":         bibFormats,
	"publisher":       bibPublisher,
	"subjects":        bibSubjects,
	"publicationYear": bibPublicationYear,
	"resourceType":    bibResourceType,
	"dates":           bibDates,
	"version":         bibVersion,
}

// fileField is a user-settable per-file field.
type fileField int

const (
	fileMIMEType fileField = iota
	fileDataType
)

// fileFields maps override keys applied uniformly to every file entry.
var fileFields = map[string]fileField{
	"mime_type": fileMIMEType,
	"data_type": fileDataType,
}

// mirroredFields also land in project metadata after their primary route.
var mirroredFields = map[string]bool{
	"data_type": true,
}

// applyOverrides routes each override key to the bibliographic block, the
// file entries or project metadata. Keys are applied in sorted order.
func applyOverrides(rec *domain.StructuredRecord, overrides map[string]any) error {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := overrides[key]
		bf, isBib := bibFields[key]
		ff, isFile := fileFields[key]

		if isBib {
			if err := bf.apply(&rec.DC, key, value); err != nil {
				return err
			}
		}
		if isFile {
			for i := range rec.Files {
				if err := ff.apply(&rec.Files[i], key, value); err != nil {
					return err
				}
			}
		}
		if (!isBib && !isFile) || mirroredFields[key] {
			if rec.ProjectMetadata == nil {
				rec.ProjectMetadata = make(map[string]any)
			}
			rec.ProjectMetadata[key] = value
		}
	}
	if rec.ProjectMetadata == nil {
		rec.ProjectMetadata = make(map[string]any)
	}
	return nil
}

func (f bibField) apply(dc *domain.Bibliographic, key string, value any) error {
	switch f {
	case bibTitle:
		titles, err := coerceList(key, value, "title", func(s string) domain.Title {
			return domain.Title{Title: s}
		})
		if err != nil {
			return err
		}
		dc.Titles = titles
	case bibDescriptions:
		descs, err := coerceList(key, value, "description", func(s string) domain.Description {
			return domain.Description{Description: s, DescriptionType: domain.DescriptionTypeOther}
		})
		if err != nil {
			return err
		}
		for i := range descs {
			if descs[i].DescriptionType == "" {
				descs[i].DescriptionType = domain.DescriptionTypeOther
			}
		}
		dc.Descriptions = descs
	case bibCreators:
		creators, err := coerceList(key, value, "creatorName", func(s string) domain.Creator {
			return domain.Creator{CreatorName: s}
		})
		if err != nil {
			return err
		}
		dc.Creators = creators
	case bibFormats:
		formats, err := coerceStrings(key, value)
		if err != nil {
			return err
		}
		dc.Formats = formats
	case bibPublisher:
		s, ok := value.(string)
		if !ok {
			return invalid(key, "must be a string")
		}
		dc.Publisher = s
	case bibSubjects:
		subjects, err := coerceList(key, value, "subject", func(s string) domain.Subject {
			return domain.Subject{Subject: s}
		})
		if err != nil {
			return err
		}
		dc.Subjects = subjects
	case bibPublicationYear:
		year, err := coerceInteger(key, value)
		if err != nil {
			return err
		}
		dc.PublicationYear = year
	case bibResourceType:
		var rt domain.ResourceType
		if s, ok := value.(string); ok {
			rt = domain.ResourceType{ResourceType: s, ResourceTypeGeneral: defaultResourceType.ResourceTypeGeneral}
		} else if err := decodeValue(key, value, &rt); err != nil {
			return err
		}
		dc.ResourceType = &rt
	case bibDates:
		var dates []domain.DateEvent
		if err := decodeValue(key, value, &dates); err != nil {
			return err
		}
		dc.Dates = dates
	case bibVersion:
		version, err := coerceInteger(key, value)
		if err != nil {
			return invalid(key, `"version" must be a number`)
		}
		dc.Version = version
	}
	return nil
}

func (f fileField) apply(entry *domain.FileManifestEntry, key string, value any) error {
	s, ok := value.(string)
	if !ok {
		return invalid(key, "must be a string")
	}
	switch f {
	case fileMIMEType:
		entry.MIMEType = s
	case fileDataType:
		entry.DataType = s
	}
	return nil
}

// coerceList accepts a bare string, a list of strings or a list of objects.
// Strings are wrapped with wrap; objects are decoded and must set keyField.
func coerceList[T any](key string, value any, keyField string, wrap func(string) T) ([]T, error) {
	switch v := value.(type) {
	case string:
		return []T{wrap(v)}, nil
	case []string:
		out := make([]T, len(v))
		for i, s := range v {
			out[i] = wrap(s)
		}
		return out, nil
	case []any:
		out := make([]T, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, wrap(s))
				continue
			}
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, invalid(key, "entries must be strings or objects")
			}
			if _, has := obj[keyField]; !has {
				return nil, invalid(key, fmt.Sprintf("entries must set %q", keyField))
			}
			var t T
			if err := decodeValue(key, obj, &t); err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	default:
		return nil, invalid(key, "must be a string or a list")
	}
}

func coerceStrings(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(key, fmt.Sprintf("%v is not of type 'string'", item))
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, invalid(key, "must be a string or a list of strings")
	}
}

// coerceInteger accepts an integer-valued number or numeric string and
// returns its decimal form.
func coerceInteger(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", invalid(key, "must be a number")
		}
		return strconv.Itoa(n), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return "", invalid(key, "must be a whole number")
		}
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", invalid(key, "must be a number")
	}
}

func decodeValue(key string, value, target any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return invalid(key, err.Error())
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return invalid(key, "has the wrong shape: "+err.Error())
	}
	return nil
}

func invalid(field, msg string) error {
	return &domain.ValidationError{Field: field, Message: msg}
}
