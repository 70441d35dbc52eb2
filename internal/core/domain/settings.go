package domain

import "time"

// UploadSettings controls manifest generation and validation.
type UploadSettings struct {
	// HashAlgorithms are computed for every file.
	HashAlgorithms []string

	// RequiredFields are bibliographic fields whose absence is reported
	// as a missing-required-fields error rather than a plain validation error.
	RequiredFields []string
}

// IngestSettings controls catalog ingest polling.
type IngestSettings struct {
	// PollInterval is the wait between task status checks.
	PollInterval time.Duration

	// Timeout bounds the whole wait for an ingest task.
	Timeout time.Duration
}

// HistorySettings controls local transfer history retention.
type HistorySettings struct {
	// MaxEntries caps the number of stored records.
	MaxEntries int
}

// GlobusSettings locates the Globus service APIs.
type GlobusSettings struct {
	TransferURL string
	SearchURL   string

	// Token is the bearer token sent to both APIs.
	Token string
}

// S3Settings locates the bucket used by the s3 protocol.
type S3Settings struct {
	Bucket   string
	Region   string
	Endpoint string
	Prefix   string

	AccessKeyID     string
	SecretAccessKey string
}

// AppSettings represents all user-configurable settings.
type AppSettings struct {
	Profile Profile
	Project Project
	Upload  UploadSettings
	Ingest  IngestSettings
	History HistorySettings
	Globus  GlobusSettings
	S3      S3Settings
}

// DefaultAppSettings returns sensible defaults for first-run.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Project: Project{
			Slug:            "nci-pilot1",
			Endpoint:        "ebf55996-33bf-11e9-9fa4-0a06afd4a22e",
			BasePath:        "/restricted/dataframes",
			TestBasePath:    "/test",
			SearchIndex:     "889729e8-d101-417d-9817-fa9d964fdbc9",
			TestSearchIndex: "e0849c9b-b709-46f3-be21-80893fc1db84",
			Group:           "d99b3400-33e7-11e9-8857-0af4690c7c7e",
			Protocol:        ProtocolGlobus,
		},
		Upload: UploadSettings{
			HashAlgorithms: append([]string(nil), DefaultHashAlgorithms...),
		},
		Ingest: IngestSettings{
			PollInterval: 500 * time.Millisecond,
			Timeout:      5 * time.Minute,
		},
		History: HistorySettings{
			MaxEntries: 100,
		},
		Globus: GlobusSettings{
			TransferURL: "https://transfer.api.globus.org/v0.10",
			SearchURL:   "https://search.api.globus.org",
		},
		S3: S3Settings{
			Region: "us-east-1",
		},
	}
}

// IsValidProtocol reports whether p names a supported transfer protocol.
func IsValidProtocol(p string) bool {
	switch p {
	case ProtocolGlobus, ProtocolHTTPS, ProtocolS3:
		return true
	default:
		return false
	}
}
