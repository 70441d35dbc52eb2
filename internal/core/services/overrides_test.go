package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

func applyTo(t *testing.T, overrides map[string]any) domain.StructuredRecord {
	t.Helper()
	rec := testRecord(
		testEntry("https://x/foo/a.tsv", 10, "aa"),
		testEntry("https://x/foo/b.tsv", 20, "bb"),
	)
	require.NoError(t, applyOverrides(&rec, overrides))
	return rec
}

func TestApplyOverrides_Titles(t *testing.T) {
	rec := applyTo(t, map[string]any{"title": "Drug response"})
	assert.Equal(t, []domain.Title{{Title: "Drug response"}}, rec.DC.Titles)

	rec = applyTo(t, map[string]any{"title": []any{"One", map[string]any{"title": "Two", "lang": "en"}}})
	assert.Equal(t, []domain.Title{{Title: "One"}, {Title: "Two"}}, rec.DC.Titles)
}

func TestApplyOverrides_Descriptions(t *testing.T) {
	rec := applyTo(t, map[string]any{"description": "A screen"})
	assert.Equal(t, []domain.Description{{Description: "A screen", DescriptionType: domain.DescriptionTypeOther}}, rec.DC.Descriptions)

	rec = applyTo(t, map[string]any{"descriptions": []any{
		map[string]any{"description": "Abstract text", "descriptionType": "Abstract"},
		map[string]any{"description": "No type"},
	}})
	assert.Equal(t, []domain.Description{
		{Description: "Abstract text", DescriptionType: "Abstract"},
		{Description: "No type", DescriptionType: domain.DescriptionTypeOther},
	}, rec.DC.Descriptions)
}

func TestApplyOverrides_CreatorsAndSubjects(t *testing.T) {
	rec := applyTo(t, map[string]any{
		"creators": []string{"Curie, Marie", "Franklin, Rosalind"},
		"subjects": "oncology",
	})
	assert.Equal(t, []domain.Creator{{CreatorName: "Curie, Marie"}, {CreatorName: "Franklin, Rosalind"}}, rec.DC.Creators)
	assert.Equal(t, []domain.Subject{{Subject: "oncology"}}, rec.DC.Subjects)
}

func TestApplyOverrides_MIMETypeSetsFormatsAndFiles(t *testing.T) {
	rec := applyTo(t, map[string]any{"mime_type": "text/csv"})

	assert.Equal(t, []string{"text/csv"}, rec.DC.Formats)
	for _, f := range rec.Files {
		assert.Equal(t, "text/csv", f.MIMEType)
	}
	assert.NotContains(t, rec.ProjectMetadata, "mime_type")
}

func TestApplyOverrides_DataTypeIsMirrored(t *testing.T) {
	rec := applyTo(t, map[string]any{"data_type": "Drug Response"})

	for _, f := range rec.Files {
		assert.Equal(t, "Drug Response", f.DataType)
	}
	assert.Equal(t, "Drug Response", rec.ProjectMetadata["data_type"])
}

func TestApplyOverrides_UnknownKeysGoToProjectMetadata(t *testing.T) {
	rec := applyTo(t, map[string]any{"cell_lines": 60, "tissue": "lung"})

	assert.Equal(t, 60, rec.ProjectMetadata["cell_lines"])
	assert.Equal(t, "lung", rec.ProjectMetadata["tissue"])
	assert.Equal(t, "nci-pilot1", rec.ProjectMetadata[ProjectSlugKey])
}

func TestApplyOverrides_Numbers(t *testing.T) {
	rec := applyTo(t, map[string]any{"publicationYear": float64(2019), "version": "3"})
	assert.Equal(t, "2019", rec.DC.PublicationYear)
	assert.Equal(t, "3", rec.DC.Version)
}

func TestApplyOverrides_ResourceTypeAndDates(t *testing.T) {
	rec := applyTo(t, map[string]any{
		"resourceType": "Spreadsheet",
		"dates": []any{
			map[string]any{"dateType": "Created", "date": "2020-01-01"},
			map[string]any{"dateType": "Issued", "date": "2020-02-01"},
		},
	})

	assert.Equal(t, &domain.ResourceType{ResourceType: "Spreadsheet", ResourceTypeGeneral: "Dataset"}, rec.DC.ResourceType)
	assert.Equal(t, []domain.DateEvent{
		{DateType: "Created", Date: "2020-01-01"},
		{DateType: "Issued", Date: "2020-02-01"},
	}, rec.DC.Dates)

	rec = applyTo(t, map[string]any{
		"resourceType": map[string]any{"resourceType": "Image", "resourceTypeGeneral": "Image"},
	})
	assert.Equal(t, "Image", rec.DC.ResourceType.ResourceTypeGeneral)
}

func TestApplyOverrides_NilProjectMetadataIsInitialised(t *testing.T) {
	rec := domain.StructuredRecord{}
	require.NoError(t, applyOverrides(&rec, nil))
	assert.NotNil(t, rec.ProjectMetadata)
}

func TestApplyOverrides_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		field     string
	}{
		{"version not a number", map[string]any{"version": "v2"}, "version"},
		{"fractional year", map[string]any{"publicationYear": 2019.5}, "publicationYear"},
		{"publisher not a string", map[string]any{"publisher": 5}, "publisher"},
		{"title of wrong type", map[string]any{"title": 5}, "title"},
		{"creator object without name", map[string]any{"creators": []any{map[string]any{"name": "x"}}}, "creators"},
		{"format not a string", map[string]any{"formats": []any{"text/csv", 3}}, "formats"},
		{"data_type not a string", map[string]any{"data_type": []any{"a"}}, "data_type"},
		{"dates of wrong shape", map[string]any{"dates": "yesterday"}, "dates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord(testEntry("https://x/foo/a.tsv", 10, "aa"))
			err := applyOverrides(&rec, tt.overrides)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
