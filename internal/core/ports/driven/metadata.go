package driven

// MetadataLoader reads user-supplied metadata overrides from a file.
type MetadataLoader interface {
	// Load parses the file into a flat override mapping.
	Load(path string) (map[string]any, error)
}
