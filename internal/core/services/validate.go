package services

import (
	"errors"
	"strconv"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// validDateTypes are the dated-event types accepted in the bibliographic block.
var validDateTypes = map[string]bool{
	"Accepted": true, "Available": true, "Copyrighted": true, "Collected": true,
	domain.DateTypeCreated: true, "Issued": true, "Submitted": true,
	domain.DateTypeUpdated: true, "Valid": true,
}

// Validate checks a record against the bibliographic schema.
// Violations on a field listed in required are reported together as a
// *domain.RequiredUploadFieldsError; otherwise the first violation is
// returned as a *domain.ValidationError.
func Validate(rec domain.StructuredRecord, required []string) error {
	violations := schemaViolations(rec)
	if len(violations) == 0 {
		return nil
	}

	requiredSet := make(map[string]bool, len(required))
	for _, f := range required {
		requiredSet[f] = true
	}
	var missing []string
	for _, v := range violations {
		if requiredSet[v.Field] {
			missing = append(missing, v.Field)
		}
	}
	if len(missing) > 0 {
		return &domain.RequiredUploadFieldsError{
			Message: violations[0].Message,
			Fields:  missing,
		}
	}
	return violations[0]
}

// IsValidationError reports whether err is a schema or override violation.
func IsValidationError(err error) bool {
	var ve *domain.ValidationError
	var re *domain.RequiredUploadFieldsError
	return errors.As(err, &ve) || errors.As(err, &re)
}

//nolint:gocyclo // One check per schema field
func schemaViolations(rec domain.StructuredRecord) []*domain.ValidationError {
	var out []*domain.ValidationError
	add := func(field, msg string) {
		out = append(out, &domain.ValidationError{Field: field, Message: msg})
	}
	dc := rec.DC

	if len(dc.Titles) == 0 {
		add("titles", "at least one title is required")
	}
	for _, t := range dc.Titles {
		if t.Title == "" {
			add("titles", "title must not be empty")
			break
		}
	}

	if len(dc.Creators) == 0 {
		add("creators", "at least one creator is required")
	}
	for _, c := range dc.Creators {
		if c.CreatorName == "" {
			add("creators", "creatorName must not be empty")
			break
		}
	}

	for _, s := range dc.Subjects {
		if s.Subject == "" {
			add("subjects", "subject must not be empty")
			break
		}
	}

	if dc.PublicationYear == "" {
		add("publicationYear", "publicationYear is required")
	} else if y, err := strconv.Atoi(dc.PublicationYear); err != nil || len(dc.PublicationYear) != 4 || y < 0 {
		add("publicationYear", "publicationYear must be a four digit year")
	}

	if dc.Publisher == "" {
		add("publisher", "publisher is required")
	}

	if dc.ResourceType == nil || dc.ResourceType.ResourceTypeGeneral == "" {
		add("resourceType", "resourceTypeGeneral is required")
	}

	switch {
	case len(dc.Dates) == 0:
		add("dates", "at least one dated event is required")
	case dc.Dates[0].DateType != domain.DateTypeCreated:
		add("dates", `the first dated event must be "Created"`)
	}
	for _, d := range dc.Dates {
		if !validDateTypes[d.DateType] {
			add("dates", "unknown dateType "+strconv.Quote(d.DateType))
			break
		}
		if d.Date == "" {
			add("dates", "date must not be empty")
			break
		}
	}

	for _, f := range dc.Formats {
		if f == "" {
			add("formats", "format must not be empty")
			break
		}
	}

	if v, err := strconv.Atoi(dc.Version); err != nil || v < 1 {
		add("version", "version must be a positive integer")
	}

	for _, d := range dc.Descriptions {
		if d.Description == "" || d.DescriptionType == "" {
			add("descriptions", "description and descriptionType are required")
			break
		}
	}

	seen := make(map[string]bool, len(rec.Files))
	for _, f := range rec.Files {
		switch {
		case f.URL == "":
			add("files", "url is required")
		case seen[f.URL]:
			add("files", "duplicate url "+f.URL)
		case f.Filename == "":
			add("files", "filename is required")
		case f.Length != nil && *f.Length < 0:
			add("files", "length must not be negative")
		}
		seen[f.URL] = true
	}

	return out
}
