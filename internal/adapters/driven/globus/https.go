package globus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Ensure HTTPSUploader implements the interface.
var _ driven.TransferClient = (*HTTPSUploader)(nil)

// CodeUploaded is the result code of a completed direct upload.
const CodeUploaded = "Uploaded"

// HTTPSUploader PUTs files straight to the endpoint's HTTPS file server.
// Directory listings are delegated to the Transfer API.
type HTTPSUploader struct {
	http    *http.Client
	baseURL string
	lister  driven.TransferClient
	fs      afero.Fs
}

// NewHTTPSUploader creates an uploader for the file server at baseURL.
// cfg.BaseURL is ignored.
func NewHTTPSUploader(cfg Config, baseURL string, lister driven.TransferClient, fs afero.Fs) *HTTPSUploader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	client := newHTTPClient(cfg)
	client.Timeout = 0
	// Redirects usually point at a login page, not the file server.
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &HTTPSUploader{
		http:    client,
		baseURL: strings.TrimRight(baseURL, "/"),
		lister:  lister,
		fs:      fs,
	}
}

// List delegates to the Transfer API.
func (u *HTTPSUploader) List(ctx context.Context, path string) ([]domain.DirEntry, error) {
	return u.lister.List(ctx, path)
}

// SubmitTransfer uploads every item synchronously, stopping at the first
// failure.
func (u *HTTPSUploader) SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	for _, item := range req.Items {
		if err := u.put(ctx, item); err != nil {
			return nil, err
		}
	}
	return &domain.TransferResult{
		TaskID:  uuid.New().String(),
		Code:    CodeUploaded,
		Message: fmt.Sprintf("Uploaded %d file(s)", len(req.Items)),
	}, nil
}

func (u *HTTPSUploader) put(ctx context.Context, item domain.TransferItem) error {
	f, err := u.fs.Open(item.LocalPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", item.LocalPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", item.LocalPath, err)
	}

	var body io.Reader = f
	if info.Size() == 0 {
		body = http.NoBody
	}

	target := u.baseURL + item.RemotePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = info.Size()

	logger.Debug("uploading %s to %s", item.LocalPath, target)
	resp, err := u.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload %s: %w", item.LocalPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	return nil
}
