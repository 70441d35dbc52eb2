package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Project, settings.Project)
	assert.Equal(t, defaults.Upload.HashAlgorithms, settings.Upload.HashAlgorithms)
	assert.Empty(t, settings.Upload.RequiredFields)
	assert.Equal(t, defaults.Ingest, settings.Ingest)
	assert.Equal(t, defaults.History, settings.History)
	assert.Equal(t, defaults.Globus, settings.Globus)
	assert.Equal(t, defaults.S3, settings.S3)
	assert.Equal(t, domain.Profile{}, settings.Profile)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"profile.name":            "Rosalind Franklin",
		"profile.organization":    "King's College",
		"profile.local_endpoint":  "local-ep",
		"project.base_path":       "/data",
		"project.http_url":        "https://files.example.org",
		"project.protocol":        "https",
		"upload.hash_algorithms":  []any{"sha512"},
		"upload.required_fields":  "titles,creators",
		"ingest.poll_interval_ms": 250,
		"ingest.timeout_seconds":  "30",
		"history.max_entries":     int64(5),
		"globus.token":            "tok",
		"s3.bucket":               "pilot-data",
		"s3.access_key_id":        "AK",
		"s3.secret_access_key":    "SK",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.Profile{Name: "Rosalind Franklin", Organization: "King's College", LocalEndpoint: "local-ep"}, settings.Profile)
	assert.Equal(t, "/data", settings.Project.BasePath)
	assert.Equal(t, "https://files.example.org", settings.Project.HTTPBaseURL)
	assert.Equal(t, domain.ProtocolHTTPS, settings.Project.Protocol)
	assert.Equal(t, []string{"sha512"}, settings.Upload.HashAlgorithms)
	assert.Equal(t, []string{"titles", "creators"}, settings.Upload.RequiredFields)
	assert.Equal(t, 250*time.Millisecond, settings.Ingest.PollInterval)
	assert.Equal(t, 30*time.Second, settings.Ingest.Timeout)
	assert.Equal(t, 5, settings.History.MaxEntries)
	assert.Equal(t, "tok", settings.Globus.Token)
	assert.Equal(t, "pilot-data", settings.S3.Bucket)
	assert.Equal(t, "us-east-1", settings.S3.Region)
	assert.Equal(t, "AK", settings.S3.AccessKeyID)
	assert.Equal(t, "SK", settings.S3.SecretAccessKey)
}

func TestSettingsService_Get_InvalidProtocolFallsBack(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"project.protocol": "ftp"})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.ProtocolGlobus, settings.Project.Protocol)
}

func TestSettingsService_Get_UnsupportedHash(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"upload.hash_algorithms": "sha256,crc32"})

	_, err := NewSettingsService(store).Get()

	assert.ErrorIs(t, err, domain.ErrUnsupportedHash)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	settings.Profile = domain.Profile{Name: "Marie Curie", Organization: "Sorbonne"}
	settings.Project.Group = "group-1"
	settings.Upload.RequiredFields = []string{"titles"}
	settings.Ingest.PollInterval = 2 * time.Second
	settings.History.MaxEntries = 7
	settings.Globus.Token = "not-saved"
	settings.S3.Bucket = "bucket"

	require.NoError(t, service.Save(&settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.Profile, loaded.Profile)
	assert.Equal(t, settings.Project, loaded.Project)
	assert.Equal(t, settings.Upload, loaded.Upload)
	assert.Equal(t, settings.Ingest, loaded.Ingest)
	assert.Equal(t, settings.History, loaded.History)
	assert.Equal(t, "bucket", loaded.S3.Bucket)
	assert.Empty(t, loaded.Globus.Token)
}

func TestSettingsService_SetProfile(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	profile := domain.Profile{Name: "Ada Lovelace", Organization: "Analytical", LocalEndpoint: "ep-1"}
	require.NoError(t, service.SetProfile(profile))

	assert.Equal(t, "Ada Lovelace", store.GetString("profile.name"))
	assert.Equal(t, "Analytical", store.GetString("profile.organization"))
	assert.Equal(t, "ep-1", store.GetString("profile.local_endpoint"))
}

func TestSettingsService_SetProtocol(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetProtocol(domain.ProtocolS3))
	assert.Equal(t, "s3", store.GetString("project.protocol"))

	assert.ErrorIs(t, service.SetProtocol("ftp"), domain.ErrInvalidInput)
	assert.Equal(t, "s3", store.GetString("project.protocol"))
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestHistoryService_List(t *testing.T) {
	history := memory.NewTransferHistory(2)
	ctx := context.Background()
	require.NoError(t, history.Record(ctx, domain.TransferResult{TaskID: "t1", Code: "Accepted"}, "foo/a.tsv"))
	require.NoError(t, history.Record(ctx, domain.TransferResult{TaskID: "t2", Code: "Accepted"}, "foo/b.tsv"))
	require.NoError(t, history.Record(ctx, domain.TransferResult{TaskID: "t3", Code: "Accepted"}, "foo/c.tsv"))

	entries, err := NewHistoryService(history).List(ctx)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "t3", entries[0].TaskID)
	assert.Equal(t, "foo/b.tsv", entries[1].Dataframe)
}
