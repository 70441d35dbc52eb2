package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDestination indicates an upload was requested without a destination.
	ErrNoDestination = errors.New("no destination given for upload")

	// ErrNoEntryToUpdate indicates an update was requested but neither a
	// remote nor a locally cached record exists for the destination.
	ErrNoEntryToUpdate = errors.New("no previous entry to update")

	// ErrContentMismatch indicates the files changed but the caller did not
	// authorise a content update.
	ErrContentMismatch = errors.New("file content differs from the published record")

	// ErrDirectoryNotFound indicates the remote destination directory is missing.
	ErrDirectoryNotFound = errors.New("destination directory does not exist")

	// ErrTransfer wraps any other transport failure during destination lookup
	// or file transfer.
	ErrTransfer = errors.New("transfer error")

	// ErrRecordExists indicates a record is already published and update was
	// not requested.
	ErrRecordExists = errors.New("record already exists")

	// ErrNoLocalEndpointSet indicates a local-agent transfer was requested
	// without a configured local endpoint.
	ErrNoLocalEndpointSet = errors.New("no local endpoint set")

	// ErrIngestFailed indicates the catalog ingest task finished in a
	// non-success state.
	ErrIngestFailed = errors.New("ingest failed")

	// ErrUnsupportedHash indicates an unknown hash algorithm name.
	ErrUnsupportedHash = errors.New("unsupported hash algorithm")

	// ErrProtocolNotConfigured indicates no transfer client serves a protocol.
	ErrProtocolNotConfigured = errors.New("transfer protocol not configured")
)

// AnalysisError reports that a file could not be parsed as tabular data.
type AnalysisError struct {
	Path string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s failed: %v", e.Path, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// ValidationError reports a bibliographic schema violation.
type ValidationError struct {
	// Field is the offending field, empty for record-level problems.
	Field string

	// Message describes the violation.
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// RequiredUploadFieldsError is a validation failure caused by one or more
// fields on the minimum-required list.
type RequiredUploadFieldsError struct {
	// Message is the underlying schema violation.
	Message string

	// Fields lists the missing required fields.
	Fields []string
}

func (e *RequiredUploadFieldsError) Error() string {
	return fmt.Sprintf("missing required upload fields %s: %s",
		strings.Join(e.Fields, ", "), e.Message)
}

// Example renders a metadata document with a placeholder for every
// required field, suitable for showing to the user.
func (e *RequiredUploadFieldsError) Example() string {
	doc := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		doc[f] = "<VALUE>"
	}
	out, _ := json.MarshalIndent(doc, "", "  ") //nolint:errcheck // map of strings always marshals
	return string(out)
}

// TransferError is a transport failure carrying a machine-readable code.
type TransferError struct {
	Code    string
	Message string
}

// TransferCodeNotFound is the transport code for a missing path.
const TransferCodeNotFound = "ClientError.NotFound"

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTransferNotFound reports whether err is a transport error for a missing path.
func IsTransferNotFound(err error) bool {
	var te *TransferError
	return errors.As(err, &te) && te.Code == TransferCodeNotFound
}
