package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	for name := range envKeys {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_Success(t *testing.T) {
	store, dir := newTestStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".pilot")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_SetPersistsNestedTables(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("profile.name", "Jane Doe"))
	require.NoError(t, store.Set("project.protocol", "s3"))

	raw, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[profile]")
	assert.Contains(t, string(raw), "[project]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", reloaded.GetString("profile.name"))
	assert.Equal(t, "s3", reloaded.GetString("project.protocol"))
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	_, dir := newTestStore(t)
	content := `
[upload]
hash_algorithms = ["sha256", "sha512"]

[ingest]
poll_interval_ms = 250

[history]
max_entries = "50"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"sha256", "sha512"}, store.GetStringSlice("upload.hash_algorithms"))
	assert.Equal(t, 250, store.GetInt("ingest.poll_interval_ms"))
	assert.Equal(t, 50, store.GetInt("history.max_entries"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	_, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("s", "hello"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("list", "md5, sha1,,sha256"))

	assert.Equal(t, "hello", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))
	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 0, store.GetInt("s"))
	assert.Equal(t, []string{"md5", "sha1", "sha256"}, store.GetStringSlice("list"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_EnvironmentOverridesFile(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, store.Set("globus.token", "from-file"))

	t.Setenv("PILOT_TOKEN", "from-env")
	require.NoError(t, store.Load())

	assert.Equal(t, "from-env", store.GetString("globus.token"))

	// The overlay is not persisted.
	require.NoError(t, store.Save())
	raw, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "from-file")
	assert.NotContains(t, string(raw), "from-env")
}

func TestConfigStore_DotEnvFileInConfigDir(t *testing.T) {
	_, dir := newTestStore(t)
	envFile := "AWS_ACCESS_KEY_ID=AKIDEXAMPLE\nAWS_SECRET_ACCESS_KEY=secret\nUNRELATED=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "AKIDEXAMPLE", store.GetString("s3.access_key_id"))
	assert.Equal(t, "secret", store.GetString("s3.secret_access_key"))
	_, ok := store.Get("UNRELATED")
	assert.False(t, ok)
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"top": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": 1, "a.c.d": "x", "top": true}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
