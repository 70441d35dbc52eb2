package services

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Update re-publishes the metadata of an existing record. The previous
// record is the published entry, falling back to the local cache.
func (s *UploadService) Update(ctx context.Context, req driving.UpdateRequest) (*driving.UpdateResult, error) {
	if req.ShortPath == "" {
		return nil, domain.ErrNoDestination
	}
	project := s.settings.Project
	subject := project.SubjectURL(req.ShortPath, req.Test)
	index := project.Index(req.Test)

	// 1. Find the record being updated
	prev, err := s.previous(ctx, index, subject)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		prev, err = s.cached(ctx, subject)
		if err != nil {
			return nil, err
		}
	}
	if prev == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoEntryToUpdate, req.ShortPath)
	}

	overrides, err := s.loadOverrides(req.MetadataFile, req.Overrides)
	if err != nil {
		return nil, err
	}

	// 2. Re-scrape the dataframe, or start from the previous record
	base := prev.Clone()
	if req.Dataframe != "" {
		dir := path.Dir(req.ShortPath)
		base, err = s.scraper.Scrape(ctx, req.Dataframe, project.HTTPURL(dir, req.Test), s.settings.Profile, project,
			ManifestOptions{
				Algorithms:   s.settings.Upload.HashAlgorithms,
				SkipAnalysis: req.SkipAnalysis,
			})
		if err != nil {
			return nil, fmt.Errorf("scrape %s: %w", req.Dataframe, err)
		}
	}

	// 3. Content changes need explicit authorisation
	changed := FilesModified(base.Files, prev.Files)
	if changed && !req.UpdateContent {
		return nil, fmt.Errorf("%w: %s", domain.ErrContentMismatch, req.ShortPath)
	}

	// 4. Reconcile and serialize
	rec, err := s.reconciler.Reconcile(base, prev, overrides)
	if err != nil {
		return nil, err
	}
	entry, err := s.serializer.Serialize(subject, project.Principals(), rec)
	if err != nil {
		return nil, err
	}

	result := &driving.UpdateResult{
		PreExistingRecord: true,
		DataframeChanged:  changed,
		Version:           rec.DC.Version,
		Subject:           subject,
		Record:            rec,
	}
	if !MetadataModified(rec, prev) || req.DryRun {
		return result, nil
	}

	protocol := project.Protocol
	if changed && protocol == domain.ProtocolGlobus && s.settings.Profile.LocalEndpoint == "" {
		return nil, domain.ErrNoLocalEndpointSet
	}
	var transfer driven.TransferClient
	if changed {
		if transfer, err = s.transfers.For(protocol); err != nil {
			return nil, err
		}
	}

	// 5. Ingest
	if err := s.publish(ctx, index, subject, entry); err != nil {
		return nil, err
	}
	result.Updated = true

	// 6. Transfer changed content
	if changed {
		tr, err := s.transferFiles(ctx, transfer, req.Dataframe, path.Dir(req.ShortPath), protocol, req.Test)
		if err != nil {
			return result, err
		}
		s.recordHistory(ctx, *tr, req.ShortPath)
	}
	return result, nil
}

// cached returns the locally cached record, or nil when none exists.
func (s *UploadService) cached(ctx context.Context, subject string) (*domain.StructuredRecord, error) {
	if s.records == nil {
		return nil, nil
	}
	rec, err := s.records.Get(ctx, subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached record %s: %w", subject, err)
	}
	logger.Debug("using locally cached record for %s", subject)
	return rec, nil
}
