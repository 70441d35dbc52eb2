package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyProfileName          = "profile.name"
	keyProfileOrganization  = "profile.organization"
	keyProfileLocalEndpoint = "profile.local_endpoint"

	keyProjectSlug            = "project.slug"
	keyProjectEndpoint        = "project.endpoint"
	keyProjectBasePath        = "project.base_path"
	keyProjectTestBasePath    = "project.test_base_path"
	keyProjectSearchIndex     = "project.search_index"
	keyProjectTestSearchIndex = "project.test_search_index"
	keyProjectGroup           = "project.group"
	keyProjectHTTPURL         = "project.http_url"
	keyProjectProtocol        = "project.protocol"

	keyUploadHashAlgorithms = "upload.hash_algorithms"
	keyUploadRequiredFields = "upload.required_fields"

	keyIngestPollIntervalMS = "ingest.poll_interval_ms"
	keyIngestTimeoutSeconds = "ingest.timeout_seconds"

	keyHistoryMaxEntries = "history.max_entries"

	keyGlobusTransferURL = "globus.transfer_url"
	keyGlobusSearchURL   = "globus.search_url"
	keyGlobusToken       = "globus.token"

	keyS3Bucket   = "s3.bucket"
	keyS3Region   = "s3.region"
	keyS3Endpoint = "s3.endpoint"
	keyS3Prefix   = "s3.prefix"

	keyS3AccessKeyID     = "s3.access_key_id"
	keyS3SecretAccessKey = "s3.secret_access_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Profile: domain.Profile{
			Name:          s.configStore.GetString(keyProfileName),
			Organization:  s.configStore.GetString(keyProfileOrganization),
			LocalEndpoint: s.configStore.GetString(keyProfileLocalEndpoint),
		},
		Project: domain.Project{
			Slug:            s.getString(keyProjectSlug, defaults.Project.Slug),
			Endpoint:        s.getString(keyProjectEndpoint, defaults.Project.Endpoint),
			BasePath:        s.getString(keyProjectBasePath, defaults.Project.BasePath),
			TestBasePath:    s.getString(keyProjectTestBasePath, defaults.Project.TestBasePath),
			SearchIndex:     s.getString(keyProjectSearchIndex, defaults.Project.SearchIndex),
			TestSearchIndex: s.getString(keyProjectTestSearchIndex, defaults.Project.TestSearchIndex),
			Group:           s.getString(keyProjectGroup, defaults.Project.Group),
			HTTPBaseURL:     s.configStore.GetString(keyProjectHTTPURL),
			Protocol:        s.getProtocol(defaults.Project.Protocol),
		},
		Upload: domain.UploadSettings{
			HashAlgorithms: s.getStringSlice(keyUploadHashAlgorithms, defaults.Upload.HashAlgorithms),
			RequiredFields: s.configStore.GetStringSlice(keyUploadRequiredFields),
		},
		Ingest: domain.IngestSettings{
			PollInterval: s.getDuration(keyIngestPollIntervalMS, time.Millisecond, defaults.Ingest.PollInterval),
			Timeout:      s.getDuration(keyIngestTimeoutSeconds, time.Second, defaults.Ingest.Timeout),
		},
		History: domain.HistorySettings{
			MaxEntries: s.getInt(keyHistoryMaxEntries, defaults.History.MaxEntries),
		},
		Globus: domain.GlobusSettings{
			TransferURL: s.getString(keyGlobusTransferURL, defaults.Globus.TransferURL),
			SearchURL:   s.getString(keyGlobusSearchURL, defaults.Globus.SearchURL),
			Token:       s.configStore.GetString(keyGlobusToken),
		},
		S3: domain.S3Settings{
			Bucket:   s.configStore.GetString(keyS3Bucket),
			Region:   s.getString(keyS3Region, defaults.S3.Region),
			Endpoint: s.configStore.GetString(keyS3Endpoint),
			Prefix:   s.configStore.GetString(keyS3Prefix),

			AccessKeyID:     s.configStore.GetString(keyS3AccessKeyID),
			SecretAccessKey: s.configStore.GetString(keyS3SecretAccessKey),
		},
	}

	for _, alg := range settings.Upload.HashAlgorithms {
		if !domain.IsHashAlgorithm(alg) {
			return nil, fmt.Errorf("%s: %w: %s", keyUploadHashAlgorithms, domain.ErrUnsupportedHash, alg)
		}
	}

	return settings, nil
}

// Save persists application settings. Credentials are left untouched;
// they are managed in the config file or the environment.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyProfileName, settings.Profile.Name},
		{keyProfileOrganization, settings.Profile.Organization},
		{keyProfileLocalEndpoint, settings.Profile.LocalEndpoint},
		{keyProjectSlug, settings.Project.Slug},
		{keyProjectEndpoint, settings.Project.Endpoint},
		{keyProjectBasePath, settings.Project.BasePath},
		{keyProjectTestBasePath, settings.Project.TestBasePath},
		{keyProjectSearchIndex, settings.Project.SearchIndex},
		{keyProjectTestSearchIndex, settings.Project.TestSearchIndex},
		{keyProjectGroup, settings.Project.Group},
		{keyProjectHTTPURL, settings.Project.HTTPBaseURL},
		{keyProjectProtocol, settings.Project.Protocol},
		{keyUploadHashAlgorithms, settings.Upload.HashAlgorithms},
		{keyUploadRequiredFields, settings.Upload.RequiredFields},
		{keyIngestPollIntervalMS, int(settings.Ingest.PollInterval / time.Millisecond)},
		{keyIngestTimeoutSeconds, int(settings.Ingest.Timeout / time.Second)},
		{keyHistoryMaxEntries, settings.History.MaxEntries},
		{keyGlobusTransferURL, settings.Globus.TransferURL},
		{keyGlobusSearchURL, settings.Globus.SearchURL},
		{keyS3Bucket, settings.S3.Bucket},
		{keyS3Region, settings.S3.Region},
		{keyS3Endpoint, settings.S3.Endpoint},
		{keyS3Prefix, settings.S3.Prefix},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetProfile updates the uploader profile.
func (s *SettingsService) SetProfile(profile domain.Profile) error {
	if err := s.configStore.Set(keyProfileName, profile.Name); err != nil {
		return fmt.Errorf("save profile name: %w", err)
	}
	if err := s.configStore.Set(keyProfileOrganization, profile.Organization); err != nil {
		return fmt.Errorf("save profile organization: %w", err)
	}
	if err := s.configStore.Set(keyProfileLocalEndpoint, profile.LocalEndpoint); err != nil {
		return fmt.Errorf("save profile local endpoint: %w", err)
	}
	return nil
}

// SetProtocol updates the default transfer protocol.
func (s *SettingsService) SetProtocol(protocol string) error {
	if !domain.IsValidProtocol(protocol) {
		return fmt.Errorf("%w: unknown protocol %q", domain.ErrInvalidInput, protocol)
	}
	return s.configStore.Set(keyProjectProtocol, protocol)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, unit, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * unit
}

func (s *SettingsService) getProtocol(defaultVal string) string {
	val := s.configStore.GetString(keyProjectProtocol)
	if !domain.IsValidProtocol(val) {
		return defaultVal
	}
	return val
}
