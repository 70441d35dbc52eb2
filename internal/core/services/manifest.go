package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// ManifestOptions controls manifest generation.
type ManifestOptions struct {
	// Algorithms are the hashes to compute. Empty means the defaults.
	Algorithms []string

	// SkipAnalysis disables column statistics.
	SkipAnalysis bool

	// MIMEType forces the content type instead of detecting it.
	MIMEType string
}

// ManifestBuilder produces remote file manifests for local paths.
type ManifestBuilder struct {
	files    driven.LocalFiles
	analyzer driven.ColumnAnalyzer
}

// NewManifestBuilder creates a manifest builder.
// The analyzer is optional; without it manifests carry no field metadata.
func NewManifestBuilder(files driven.LocalFiles, analyzer driven.ColumnAnalyzer) *ManifestBuilder {
	return &ManifestBuilder{files: files, analyzer: analyzer}
}

// Build returns one manifest entry per file under localPath. Each entry's
// URL is baseURL joined with the file's remote relative path.
func (b *ManifestBuilder) Build(
	ctx context.Context,
	localPath, baseURL string,
	opts ManifestOptions,
) ([]domain.FileManifestEntry, error) {
	algorithms := opts.Algorithms
	if len(algorithms) == 0 {
		algorithms = domain.DefaultHashAlgorithms
	}
	for _, alg := range algorithms {
		if !domain.IsHashAlgorithm(alg) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedHash, alg)
		}
	}

	files, err := b.files.Enumerate(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", localPath, err)
	}

	entries := make([]domain.FileManifestEntry, 0, len(files))
	for _, f := range files {
		entry, err := b.buildEntry(ctx, f, baseURL, algorithms, opts)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (b *ManifestBuilder) buildEntry(
	ctx context.Context,
	f domain.LocalFile,
	baseURL string,
	algorithms []string,
	opts ManifestOptions,
) (domain.FileManifestEntry, error) {
	entry := domain.FileManifestEntry{
		URL:       strings.TrimSuffix(baseURL, "/") + "/" + f.RemotePath,
		Filename:  path.Base(f.RemotePath),
		Checksums: make(map[string]string, len(algorithms)),
	}

	for _, alg := range algorithms {
		sum, err := b.files.Checksum(ctx, f.LocalPath, alg)
		if err != nil {
			return entry, fmt.Errorf("checksum %s: %w", f.LocalPath, err)
		}
		entry.Checksums[alg] = sum
	}

	size, exists, err := b.files.Size(f.LocalPath)
	if err != nil {
		return entry, fmt.Errorf("stat %s: %w", f.LocalPath, err)
	}
	if exists {
		entry.Length = &size
	}

	entry.MIMEType = opts.MIMEType
	if entry.MIMEType == "" {
		mimeType, err := b.files.DetectMIME(f.LocalPath)
		if err != nil {
			return entry, fmt.Errorf("detect type of %s: %w", f.LocalPath, err)
		}
		entry.MIMEType = mimeType
	}

	if !opts.SkipAnalysis && b.analyzer != nil && b.analyzer.Supports(entry.MIMEType) {
		logger.Debug("analysing %s as %s", f.LocalPath, entry.MIMEType)
		dd, err := b.analyzer.Analyze(ctx, f.LocalPath, entry.MIMEType)
		if err != nil {
			return entry, err
		}
		entry.FieldMetadata = dd
	}

	return entry, nil
}
