// Package globus provides adapters for the Globus Transfer and Search
// APIs, plus direct HTTPS uploads to an endpoint's file server.
package globus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

// DefaultTimeout bounds every API request.
const DefaultTimeout = 60 * time.Second

// Config holds the connection settings shared by the adapters.
type Config struct {
	// BaseURL is the API root, e.g. https://transfer.api.globus.org/v0.10.
	BaseURL string

	// Token is the bearer token. Requests are unauthenticated when empty.
	Token string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests. The token is
	// still attached.
	HTTPClient *http.Client
}

// apiClient performs JSON requests against one Globus API.
type apiClient struct {
	http    *http.Client
	baseURL string
}

// apiError is the error body shared by the Globus APIs.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAPIClient(cfg Config) *apiClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &apiClient{
		http:    newHTTPClient(cfg),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// newHTTPClient wraps the configured transport with a static bearer token.
func newHTTPClient(cfg Config) *http.Client {
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{}
	}
	client := *base
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client.Transport = oauth2.NewClient(ctx, ts).Transport
	}
	return &client
}

// do sends a request and decodes a JSON response into out.
// Non-2xx responses are returned as *domain.TransferError.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response into a TransferError, falling back
// to the HTTP status when the body is not the usual JSON shape.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = fmt.Sprintf("HTTP%d", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			apiErr.Code = domain.TransferCodeNotFound
		}
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return &domain.TransferError{Code: apiErr.Code, Message: apiErr.Message}
}
