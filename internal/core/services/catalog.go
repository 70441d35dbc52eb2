package services

import (
	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// CatalogSerializer wraps validated records into catalog entries.
type CatalogSerializer struct {
	required []string
}

// NewCatalogSerializer creates a serializer with the minimum required fields.
func NewCatalogSerializer(required []string) *CatalogSerializer {
	return &CatalogSerializer{required: required}
}

// Serialize validates content and wraps it for the subject. Principals other
// than "public" are expanded to group URNs.
func (s *CatalogSerializer) Serialize(
	subject string,
	principals []string,
	content domain.StructuredRecord,
) (domain.CatalogEntry, error) {
	if err := Validate(content, s.required); err != nil {
		return domain.CatalogEntry{}, err
	}

	visibleTo := make([]string, len(principals))
	for i, p := range principals {
		visibleTo[i] = domain.GroupURN(p)
	}
	logger.Debug("visible_to for %s set to %v", subject, visibleTo)

	return domain.CatalogEntry{
		Version:   domain.GMetaVersion,
		Subject:   subject,
		VisibleTo: visibleTo,
		Content:   content,
		ID:        domain.CatalogEntryID,
	}, nil
}
