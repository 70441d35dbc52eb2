package driven

// ConfigStore holds pilot's settings as flattened dot keys such as
// "profile.name" or "s3.bucket". Values may be shadowed by the
// environment; such values are readable but never persisted.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns "" when key is unset or not a string.
	GetString(key string) string

	// GetInt accepts integers of any width and numeric strings.
	// Returns 0 otherwise.
	GetInt(key string) int

	// GetStringSlice accepts lists and comma-separated strings.
	// Returns nil when key is unset.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error

	Save() error

	// Load re-reads the backing file and the environment overlay.
	Load() error

	// Path returns the backing file, for display.
	Path() string
}
