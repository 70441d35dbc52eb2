// Package usermeta reads user-supplied metadata overrides from JSON, YAML,
// TOML and Markdown files.
package usermeta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.MetadataLoader = (*Loader)(nil)

// ErrUnsupportedFormat is returned for unknown metadata file extensions.
var ErrUnsupportedFormat = errors.New("unsupported metadata format")

const (
	keyTitle       = "title"
	keyDescription = "description"
)

// Loader parses metadata files into override mappings.
type Loader struct {
	fs afero.Fs
	md goldmark.Markdown
}

// New creates a loader reading from the OS filesystem.
func New() *Loader {
	return NewWithFS(afero.NewOsFs())
}

// NewWithFS creates a loader reading from fs.
func NewWithFS(fs afero.Fs) *Loader {
	return &Loader{
		fs: fs,
		md: goldmark.New(
			goldmark.WithExtensions(
				&frontmatter.Extender{},
			),
		),
	}
}

// Load parses the file at path. The format is chosen by extension.
func (l *Loader) Load(path string) (map[string]any, error) {
	content, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read metadata file: %w", err)
	}

	out := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(content, &out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &out)
	case ".toml":
		err = toml.Unmarshal(content, &out)
	case ".md", ".markdown":
		out, err = l.parseMarkdown(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	if out == nil {
		out = make(map[string]any)
	}
	return out, nil
}

// parseMarkdown takes overrides from the frontmatter. The body paragraphs
// become the description and a leading level-one heading the title, unless
// the frontmatter sets them.
func (l *Loader) parseMarkdown(src []byte) (map[string]any, error) {
	pc := parser.NewContext()
	doc := l.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	out := make(map[string]any)
	if fm := frontmatter.Get(pc); fm != nil {
		if err := fm.Decode(&out); err != nil {
			return nil, fmt.Errorf("cannot decode frontmatter: %w", err)
		}
	}

	var (
		title      string
		paragraphs []string
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && title == "" && len(paragraphs) == 0 {
				title = lines(node, src)
			}
		case *ast.Paragraph:
			if p := lines(node, src); p != "" {
				paragraphs = append(paragraphs, p)
			}
		}
	}

	if _, ok := out[keyTitle]; !ok && title != "" {
		out[keyTitle] = title
	}
	if _, ok := out[keyDescription]; !ok && len(paragraphs) > 0 {
		out[keyDescription] = strings.Join(paragraphs, "\n\n")
	}
	return out, nil
}

// lines returns the raw source text of a block node.
func lines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimSpace(buf.String())
}
