// Package transfer builds the transfer client for each protocol and selects
// between them per request.
package transfer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/globus"
	"github.com/custodia-labs/pilot-cli/internal/adapters/driven/objectstore"
	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Ensure Router implements the interface.
var _ driven.TransferClients = (*Router)(nil)

// Router holds one transfer client per protocol.
type Router struct {
	clients map[string]driven.TransferClient
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{clients: make(map[string]driven.TransferClient)}
}

// Register adds or replaces the client for protocol.
func (r *Router) Register(protocol string, client driven.TransferClient) {
	r.clients[protocol] = client
}

// For returns the client serving protocol.
func (r *Router) For(protocol string) (driven.TransferClient, error) {
	client, ok := r.clients[protocol]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %s)",
			domain.ErrProtocolNotConfigured, protocol, strings.Join(r.Protocols(), ", "))
	}
	return client, nil
}

// Protocols returns the registered protocols in sorted order.
func (r *Router) Protocols() []string {
	out := make([]string, 0, len(r.clients))
	for p := range r.clients {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// NewRouterFromSettings registers a client for every protocol the settings
// can serve. The globus and https protocols are always available; s3 needs
// a bucket.
func NewRouterFromSettings(settings *domain.AppSettings, fs afero.Fs) *Router {
	r := NewRouter()

	cfg := globus.Config{
		BaseURL: settings.Globus.TransferURL,
		Token:   settings.Globus.Token,
	}
	tc := globus.NewTransferClient(cfg, settings.Project.Endpoint)
	r.Register(domain.ProtocolGlobus, tc)
	r.Register(domain.ProtocolHTTPS, globus.NewHTTPSUploader(cfg, settings.Project.FileServerURL(), tc, fs))

	if settings.S3.Bucket != "" {
		client := objectstore.NewS3Client(objectstore.Config{
			Bucket:          settings.S3.Bucket,
			Region:          settings.S3.Region,
			Endpoint:        settings.S3.Endpoint,
			Prefix:          settings.S3.Prefix,
			AccessKeyID:     settings.S3.AccessKeyID,
			SecretAccessKey: settings.S3.SecretAccessKey,
		})
		r.Register(domain.ProtocolS3, objectstore.NewS3Transfer(client, settings.S3.Bucket, settings.S3.Prefix, fs))
	}
	return r
}
