package domain

import (
	"path"
	"strings"
)

// DefaultPublisher is used when the profile names no organisation.
const DefaultPublisher = "Argonne National Laboratory"

// Profile identifies the person uploading data.
type Profile struct {
	// Name is the display name, e.g. "Samuel L. Jackson".
	Name string

	// Organization is used as the publisher.
	Organization string

	// LocalEndpoint is the transfer endpoint on this machine.
	LocalEndpoint string
}

// Publisher returns the organisation or the default publisher.
func (p Profile) Publisher() string {
	if p.Organization == "" {
		return DefaultPublisher
	}
	return p.Organization
}

// FormalName renders the name as "Last, First Middle" when it has several
// space-separated tokens and no comma.
func (p Profile) FormalName() string {
	tokens := strings.Split(p.Name, " ")
	if len(tokens) > 1 && !strings.Contains(p.Name, ",") {
		return tokens[len(tokens)-1] + ", " + strings.Join(tokens[:len(tokens)-1], " ")
	}
	return p.Name
}

// Transfer protocols.
const (
	// ProtocolGlobus transfers through the local endpoint agent.
	ProtocolGlobus = "globus"

	// ProtocolHTTPS uploads each file directly over HTTPS.
	ProtocolHTTPS = "https"

	// ProtocolS3 writes objects to an S3 bucket.
	ProtocolS3 = "s3"
)

// Project describes where a project's dataframes live.
type Project struct {
	// Slug identifies the project in project metadata.
	Slug string

	// Endpoint is the remote storage endpoint identifier.
	Endpoint string

	// BasePath is the root for production data.
	BasePath string

	// TestBasePath is the root for test uploads.
	TestBasePath string

	// SearchIndex is the production catalog index.
	SearchIndex string

	// TestSearchIndex is the catalog index for test uploads.
	TestSearchIndex string

	// Group is the principal granted visibility on published entries.
	Group string

	// HTTPBaseURL serves files over HTTPS. Empty means
	// https://<endpoint>.e.globus.org.
	HTTPBaseURL string

	// Protocol selects how files are transferred.
	Protocol string
}

// Path joins the base path for the mode with a short path.
func (p Project) Path(short string, test bool) string {
	base := p.BasePath
	if test {
		base = p.TestBasePath
	}
	return path.Join("/", base, short)
}

// SubjectURL is the catalog subject for a short path.
func (p Project) SubjectURL(short string, test bool) string {
	return "globus://" + p.Endpoint + p.Path(short, test)
}

// HTTPURL is the HTTPS location of a short path.
func (p Project) HTTPURL(short string, test bool) string {
	return p.FileServerURL() + p.Path(short, test)
}

// FileServerURL is the root of the endpoint's HTTPS file server.
func (p Project) FileServerURL() string {
	if base := strings.TrimSuffix(p.HTTPBaseURL, "/"); base != "" {
		return base
	}
	return "https://" + p.Endpoint + ".e.globus.org"
}

// Index returns the catalog index for the mode.
func (p Project) Index(test bool) string {
	if test {
		return p.TestSearchIndex
	}
	return p.SearchIndex
}

// Principals returns the access list for published entries.
func (p Project) Principals() []string {
	if p.Group == "" {
		return []string{PrincipalPublic}
	}
	return []string{p.Group}
}
