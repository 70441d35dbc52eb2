package domain

import "time"

// DirEntry is one entry of a remote directory listing.
type DirEntry struct {
	Name string
	Type string
	Size int64
}

// Directory entry types.
const (
	DirEntryFile = "file"
	DirEntryDir  = "dir"
)

// TransferItem maps a local file onto a remote path.
type TransferItem struct {
	LocalPath  string
	RemotePath string
}

// TransferRequest asks the transport to move files to the destination.
type TransferRequest struct {
	// Protocol selects the transport mode.
	Protocol string

	// SourceEndpoint is the local agent's endpoint, if any.
	SourceEndpoint string

	// DestinationEndpoint is the remote storage endpoint.
	DestinationEndpoint string

	// Label is a human-readable task label.
	Label string

	// Items are the files to move.
	Items []TransferItem
}

// TransferResult is the transport's acknowledgement of a submission.
type TransferResult struct {
	TaskID  string `json:"task_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TransferLogEntry is one local transfer history record.
type TransferLogEntry struct {
	// ID is a unique identifier for the record.
	ID string

	// Dataframe is the remote short path that was transferred.
	Dataframe string

	// Status is the transport's result code.
	Status string

	// TaskID is the transport task identifier.
	TaskID string

	// StartTime is when the transfer was submitted.
	StartTime time.Time
}
