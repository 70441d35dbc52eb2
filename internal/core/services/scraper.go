package services

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// TimestampLayout is the UTC ISO-8601 form used for dated events.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Default bibliographic values for fresh records.
var (
	defaultSubjects = []string{"machine learning", "genomics"}

	defaultResourceType = domain.ResourceType{
		ResourceType:        "Dataset",
		ResourceTypeGeneral: "Dataset",
	}
)

// ProjectSlugKey is the project metadata key naming the project.
const ProjectSlugKey = "project-slug"

// Scraper assembles fresh records from local files.
type Scraper struct {
	manifest *ManifestBuilder
	now      func() time.Time
}

// NewScraper creates a scraper over a manifest builder.
func NewScraper(manifest *ManifestBuilder) *Scraper {
	return &Scraper{manifest: manifest, now: time.Now}
}

// Scrape builds a version "1" record for path with a single Created event.
func (s *Scraper) Scrape(
	ctx context.Context,
	path, baseURL string,
	profile domain.Profile,
	project domain.Project,
	opts ManifestOptions,
) (domain.StructuredRecord, error) {
	files, err := s.manifest.Build(ctx, path, baseURL, opts)
	if err != nil {
		return domain.StructuredRecord{}, err
	}

	now := s.now().UTC()

	subjects := make([]domain.Subject, len(defaultSubjects))
	for i, sub := range defaultSubjects {
		subjects[i] = domain.Subject{Subject: sub}
	}
	rt := defaultResourceType

	return domain.StructuredRecord{
		DC: domain.Bibliographic{
			Titles:          []domain.Title{{Title: filepath.Base(path)}},
			Creators:        []domain.Creator{{CreatorName: profile.FormalName()}},
			Subjects:        subjects,
			PublicationYear: strconv.Itoa(now.Year()),
			Publisher:       profile.Publisher(),
			ResourceType:    &rt,
			Dates:           []domain.DateEvent{{DateType: domain.DateTypeCreated, Date: now.Format(TimestampLayout)}},
			Formats:         distinctFormats(files),
			Version:         "1",
		},
		Files: files,
		ProjectMetadata: map[string]any{
			ProjectSlugKey: project.Slug,
		},
	}, nil
}

func distinctFormats(files []domain.FileManifestEntry) []string {
	seen := make(map[string]bool)
	formats := []string{}
	for _, f := range files {
		if f.MIMEType == "" || seen[f.MIMEType] {
			continue
		}
		seen[f.MIMEType] = true
		formats = append(formats, f.MIMEType)
	}
	return formats
}
