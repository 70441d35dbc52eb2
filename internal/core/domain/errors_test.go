package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNoDestination", ErrNoDestination},
		{"ErrNoEntryToUpdate", ErrNoEntryToUpdate},
		{"ErrContentMismatch", ErrContentMismatch},
		{"ErrDirectoryNotFound", ErrDirectoryNotFound},
		{"ErrTransfer", ErrTransfer},
		{"ErrRecordExists", ErrRecordExists},
		{"ErrNoLocalEndpointSet", ErrNoLocalEndpointSet},
		{"ErrIngestFailed", ErrIngestFailed},
		{"ErrUnsupportedHash", ErrUnsupportedHash},
		{"ErrProtocolNotConfigured", ErrProtocolNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrDirectoryNotFound, ErrTransfer))
	assert.False(t, errors.Is(ErrRecordExists, ErrNoEntryToUpdate))
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", ErrIngestFailed), ErrIngestFailed))
}

func TestAnalysisError(t *testing.T) {
	cause := errors.New("no header row")
	err := error(&AnalysisError{Path: "data.tsv", Err: cause})

	assert.Contains(t, err.Error(), "data.tsv")
	assert.Contains(t, err.Error(), "no header row")
	assert.True(t, errors.Is(err, cause))

	var ae *AnalysisError
	require.True(t, errors.As(fmt.Errorf("scrape: %w", err), &ae))
	assert.Equal(t, "data.tsv", ae.Path)
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation error: version: must be numeric",
		(&ValidationError{Field: "version", Message: "must be numeric"}).Error())
	assert.Equal(t, "validation error: record is empty",
		(&ValidationError{Message: "record is empty"}).Error())
}

func TestRequiredUploadFieldsError_Example(t *testing.T) {
	err := &RequiredUploadFieldsError{Message: "titles is required", Fields: []string{"titles", "creators"}}

	assert.Contains(t, err.Error(), "titles, creators")

	var doc map[string]string
	require.NoError(t, json.Unmarshal([]byte(err.Example()), &doc))
	assert.Equal(t, map[string]string{"titles": "<VALUE>", "creators": "<VALUE>"}, doc)
}

func TestIsTransferNotFound(t *testing.T) {
	notFound := &TransferError{Code: TransferCodeNotFound, Message: "no such dir"}
	denied := &TransferError{Code: "ClientError.PermissionDenied", Message: "nope"}

	assert.True(t, IsTransferNotFound(notFound))
	assert.True(t, IsTransferNotFound(fmt.Errorf("ls: %w", notFound)))
	assert.False(t, IsTransferNotFound(denied))
	assert.False(t, IsTransferNotFound(errors.New("plain")))
	assert.Equal(t, "ClientError.NotFound: no such dir", notFound.Error())
}
