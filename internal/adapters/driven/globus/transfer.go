package globus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Ensure TransferClient implements the interface.
var _ driven.TransferClient = (*TransferClient)(nil)

// syncLevelChecksum re-copies files whose checksums differ.
const syncLevelChecksum = "checksum"

// TransferClient submits local-agent transfers through the Transfer API.
type TransferClient struct {
	api      *apiClient
	endpoint string
}

type lsResponse struct {
	Data []struct {
		Name string `json:"name"`
		Type string `json:"type"`
		Size int64  `json:"size"`
	} `json:"DATA"`
}

type submissionIDResponse struct {
	Value string `json:"value"`
}

type transferItem struct {
	DataType        string `json:"DATA_TYPE"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Recursive       bool   `json:"recursive"`
}

type transferDocument struct {
	DataType            string         `json:"DATA_TYPE"`
	SubmissionID        string         `json:"submission_id"`
	SourceEndpoint      string         `json:"source_endpoint"`
	DestinationEndpoint string         `json:"destination_endpoint"`
	Label               string         `json:"label,omitempty"`
	SyncLevel           string         `json:"sync_level"`
	EncryptData         bool           `json:"encrypt_data"`
	NotifyOnSucceeded   bool           `json:"notify_on_succeeded"`
	Data                []transferItem `json:"DATA"`
}

// NewTransferClient creates a Transfer API client for the given
// destination endpoint.
func NewTransferClient(cfg Config, endpoint string) *TransferClient {
	return &TransferClient{api: newAPIClient(cfg), endpoint: endpoint}
}

// List returns the entries of a directory on the destination endpoint.
func (c *TransferClient) List(ctx context.Context, path string) ([]domain.DirEntry, error) {
	var resp lsResponse
	query := url.Values{"path": {path}}
	if err := c.api.do(ctx, http.MethodGet, "/operation/endpoint/"+url.PathEscape(c.endpoint)+"/ls", query, nil, &resp); err != nil {
		return nil, err
	}

	entries := make([]domain.DirEntry, 0, len(resp.Data))
	for _, d := range resp.Data {
		entries = append(entries, domain.DirEntry{Name: d.Name, Type: d.Type, Size: d.Size})
	}
	return entries, nil
}

// SubmitTransfer starts a checksum-synchronised, encrypted transfer from the
// local agent endpoint.
func (c *TransferClient) SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	if req.SourceEndpoint == "" {
		return nil, domain.ErrNoLocalEndpointSet
	}
	destination := req.DestinationEndpoint
	if destination == "" {
		destination = c.endpoint
	}

	var sub submissionIDResponse
	if err := c.api.do(ctx, http.MethodGet, "/submission_id", nil, nil, &sub); err != nil {
		return nil, fmt.Errorf("get submission id: %w", err)
	}

	doc := transferDocument{
		DataType:            "transfer",
		SubmissionID:        sub.Value,
		SourceEndpoint:      req.SourceEndpoint,
		DestinationEndpoint: destination,
		Label:               req.Label,
		SyncLevel:           syncLevelChecksum,
		EncryptData:         true,
		Data:                make([]transferItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		doc.Data = append(doc.Data, transferItem{
			DataType:        "transfer_item",
			SourcePath:      item.LocalPath,
			DestinationPath: item.RemotePath,
		})
	}

	var result domain.TransferResult
	if err := c.api.do(ctx, http.MethodPost, "/transfer", nil, doc, &result); err != nil {
		return nil, err
	}
	logger.Debug("transfer task %s: %s", result.TaskID, result.Code)
	return &result, nil
}
