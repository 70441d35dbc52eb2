package driving

import "github.com/custodia-labs/pilot-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetProfile updates the uploader profile.
	SetProfile(profile domain.Profile) error

	// SetProtocol updates the default transfer protocol.
	SetProtocol(protocol string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
