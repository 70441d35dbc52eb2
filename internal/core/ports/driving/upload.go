package driving

import (
	"context"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// UploadRequest describes one dataframe upload.
type UploadRequest struct {
	// Dataframe is the local file or directory.
	Dataframe string

	// Destination is the remote directory, relative to the project base path.
	Destination string

	// MetadataFile optionally names a JSON, YAML or Markdown metadata file.
	MetadataFile string

	// Overrides are applied after the metadata file.
	Overrides map[string]any

	// Update allows replacing an existing record.
	Update bool

	// DryRun performs every check but no ingest, transfer or history write.
	DryRun bool

	// Test targets the test index and base path.
	Test bool

	// SkipAnalysis disables column statistics.
	SkipAnalysis bool

	// MIMEType forces the content type of every file.
	MIMEType string

	// Protocol overrides the project's transfer protocol.
	Protocol string
}

// UploadResult reports what an upload decided and did.
type UploadResult struct {
	ShortPath        string
	Subject          string
	URL              string
	PreviousVersion  string
	NewVersion       string
	RecordExists     bool
	FilesModified    bool
	MetadataModified bool
	Ingested         bool
	Transferred      bool
	Protocol         string
	DryRun           bool
	Transfer         *domain.TransferResult
	Record           domain.StructuredRecord
}

// UpdateRequest describes a change to an already published record.
type UpdateRequest struct {
	// ShortPath is "<destination>/<name>" of the published dataframe.
	ShortPath string

	// Dataframe optionally re-scrapes a local file at the same subject.
	Dataframe string

	// MetadataFile optionally names a metadata file.
	MetadataFile string

	// Overrides are applied after the metadata file.
	Overrides map[string]any

	// UpdateContent authorises a change in file content.
	UpdateContent bool

	DryRun       bool
	Test         bool
	SkipAnalysis bool
}

// UpdateResult reports the outcome of an update.
type UpdateResult struct {
	Updated           bool
	PreExistingRecord bool
	DataframeChanged  bool
	Version           string
	Subject           string
	Record            domain.StructuredRecord
}

// Uploader publishes dataframes and their metadata.
type Uploader interface {
	// Upload scrapes, reconciles, ingests and transfers a dataframe.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// Update re-publishes the metadata of an existing record.
	Update(ctx context.Context, req UpdateRequest) (*UpdateResult, error)
}
