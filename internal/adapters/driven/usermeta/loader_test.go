package usermeta

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaderWith(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return NewWithFS(fsys)
}

func TestLoad_JSON(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/meta.json": `{"title": "My Dataset", "subjects": ["a", "b"], "version": 2}`,
	})

	got, err := l.Load("/meta.json")
	require.NoError(t, err)

	assert.Equal(t, "My Dataset", got["title"])
	assert.Equal(t, []any{"a", "b"}, got["subjects"])
	assert.Equal(t, float64(2), got["version"])
}

func TestLoad_YAML(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/meta.yml": "title: My Dataset\ndata_type: Drug Response\nsubjects:\n  - cancer\n",
	})

	got, err := l.Load("/meta.yml")
	require.NoError(t, err)

	assert.Equal(t, "My Dataset", got["title"])
	assert.Equal(t, "Drug Response", got["data_type"])
	assert.Equal(t, []any{"cancer"}, got["subjects"])
}

func TestLoad_TOML(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/meta.toml": "title = \"My Dataset\"\npublisher = \"Lab\"\n",
	})

	got, err := l.Load("/meta.toml")
	require.NoError(t, err)

	assert.Equal(t, "My Dataset", got["title"])
	assert.Equal(t, "Lab", got["publisher"])
}

func TestLoad_EmptyJSONNull(t *testing.T) {
	l := loaderWith(t, map[string]string{"/meta.json": "null"})

	got, err := l.Load("/meta.json")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_MarkdownFrontmatterAndBody(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/README.md": "---\ntitle: From Frontmatter\nmime_type: text/tab-separated-values\n---\n" +
			"# Ignored Heading\n\nFirst paragraph\nspans lines.\n\nSecond paragraph.\n",
	})

	got, err := l.Load("/README.md")
	require.NoError(t, err)

	assert.Equal(t, "From Frontmatter", got["title"])
	assert.Equal(t, "text/tab-separated-values", got["mime_type"])
	assert.Equal(t, "First paragraph\nspans lines.\n\nSecond paragraph.", got["description"])
}

func TestLoad_MarkdownHeadingBecomesTitle(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/notes.md": "# Drug Screen Results\n\nCell line responses.\n",
	})

	got, err := l.Load("/notes.md")
	require.NoError(t, err)

	assert.Equal(t, "Drug Screen Results", got["title"])
	assert.Equal(t, "Cell line responses.", got["description"])
}

func TestLoad_MarkdownFrontmatterDescriptionWins(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/notes.md": "---\ndescription: short\n---\nlong body text\n",
	})

	got, err := l.Load("/notes.md")
	require.NoError(t, err)

	assert.Equal(t, "short", got["description"])
	assert.NotContains(t, got, "title")
}

func TestLoad_Errors(t *testing.T) {
	l := loaderWith(t, map[string]string{
		"/bad.json": "{not json",
		"/meta.xml": "<x/>",
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load("/missing.json")
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := l.Load("/bad.json")
		assert.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := l.Load("/meta.xml")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}
