package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.Uploader = (*UploadService)(nil)

// transferLabel names transfer tasks submitted by this client.
const transferLabel = "Pilot Dataframe Transfer"

// UploadService coordinates scraping, reconciliation, catalog ingest and
// file transfer for dataframe uploads.
type UploadService struct {
	settings  domain.AppSettings
	transfers driven.TransferClients
	search    driven.SearchClient
	files     driven.LocalFiles
	loader    driven.MetadataLoader
	records   driven.RecordStore
	history   driven.TransferHistory

	scraper    *Scraper
	reconciler *Reconciler
	serializer *CatalogSerializer
}

// NewUploadService creates a new upload service.
// The analyzer, loader, records and history are optional.
func NewUploadService(
	settings domain.AppSettings,
	transfers driven.TransferClients,
	search driven.SearchClient,
	files driven.LocalFiles,
	analyzer driven.ColumnAnalyzer,
	loader driven.MetadataLoader,
	records driven.RecordStore,
	history driven.TransferHistory,
) *UploadService {
	return &UploadService{
		settings:   settings,
		transfers:  transfers,
		search:     search,
		files:      files,
		loader:     loader,
		records:    records,
		history:    history,
		scraper:    NewScraper(NewManifestBuilder(files, analyzer)),
		reconciler: NewReconciler(settings.Upload.RequiredFields),
		serializer: NewCatalogSerializer(settings.Upload.RequiredFields),
	}
}

// Upload publishes a dataframe and its metadata.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *UploadService) Upload(ctx context.Context, req driving.UploadRequest) (*driving.UploadResult, error) {
	project := s.settings.Project
	protocol := req.Protocol
	if protocol == "" {
		protocol = project.Protocol
	}
	if !domain.IsValidProtocol(protocol) {
		return nil, fmt.Errorf("%w: unknown protocol %q", domain.ErrInvalidInput, protocol)
	}
	transfer, err := s.transfers.For(protocol)
	if err != nil {
		return nil, err
	}

	// 1. Locate the destination directory
	if req.Destination == "" {
		return nil, domain.ErrNoDestination
	}
	if err := locate(ctx, transfer, project.Path(req.Destination, req.Test)); err != nil {
		return nil, err
	}

	// 2. Load user metadata
	overrides, err := s.loadOverrides(req.MetadataFile, req.Overrides)
	if err != nil {
		return nil, err
	}

	// 3. Fetch the previous entry
	shortPath := path.Join(req.Destination, filepath.Base(req.Dataframe))
	subject := project.SubjectURL(shortPath, req.Test)
	index := project.Index(req.Test)
	prev, err := s.previous(ctx, index, subject)
	if err != nil {
		return nil, err
	}

	// 4. Scrape
	baseURL := project.HTTPURL(req.Destination, req.Test)
	scraped, err := s.scraper.Scrape(ctx, req.Dataframe, baseURL, s.settings.Profile, project, ManifestOptions{
		Algorithms:   s.settings.Upload.HashAlgorithms,
		SkipAnalysis: req.SkipAnalysis,
		MIMEType:     req.MIMEType,
	})
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", req.Dataframe, err)
	}

	// 5. Reconcile
	rec, err := s.reconciler.Reconcile(scraped, prev, overrides)
	if err != nil {
		return nil, err
	}

	// 6. Serialize
	entry, err := s.serializer.Serialize(subject, project.Principals(), rec)
	if err != nil {
		return nil, err
	}

	result := &driving.UploadResult{
		ShortPath:        shortPath,
		Subject:          subject,
		URL:              project.HTTPURL(shortPath, req.Test),
		NewVersion:       rec.DC.Version,
		RecordExists:     prev != nil,
		FilesModified:    prev == nil || FilesModified(rec.Files, prev.Files),
		MetadataModified: MetadataModified(rec, prev),
		Protocol:         protocol,
		DryRun:           req.DryRun,
		Record:           rec,
	}
	if prev != nil {
		result.PreviousVersion = prev.DC.Version
	}

	// 7. Nothing to do when the published record already matches
	if prev != nil && !result.MetadataModified {
		logger.Info("%s is already up to date", shortPath)
		return result, nil
	}

	// 8. Refuse to replace without an explicit update
	if prev != nil && !req.Update {
		return nil, fmt.Errorf("%w for %s, last updated %s", domain.ErrRecordExists, shortPath, lastUpdated(*prev))
	}

	// 9. Dry run stops before side effects
	if req.DryRun {
		return result, nil
	}

	// 10. Local agent transfers need a local endpoint
	if result.FilesModified && protocol == domain.ProtocolGlobus && s.settings.Profile.LocalEndpoint == "" {
		return nil, domain.ErrNoLocalEndpointSet
	}

	// 11. Ingest
	if err := s.publish(ctx, index, subject, entry); err != nil {
		return nil, err
	}
	result.Ingested = true

	// 12. Transfer only when content changed
	if !result.FilesModified {
		logger.Info("metadata updated, %s is already up to date", shortPath)
		return result, nil
	}
	tr, err := s.transferFiles(ctx, transfer, req.Dataframe, req.Destination, protocol, req.Test)
	if err != nil {
		return result, err
	}
	result.Transfer = tr
	result.Transferred = true

	// 13. Record history
	s.recordHistory(ctx, *tr, shortPath)

	return result, nil
}

// locate checks that the destination directory exists.
func locate(ctx context.Context, transfer driven.TransferClient, dir string) error {
	if _, err := transfer.List(ctx, dir); err != nil {
		if domain.IsTransferNotFound(err) {
			return fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, dir)
		}
		return fmt.Errorf("%w: %w", domain.ErrTransfer, err)
	}
	return nil
}

// loadOverrides merges the metadata file with inline overrides. Inline
// values win.
func (s *UploadService) loadOverrides(file string, inline map[string]any) (map[string]any, error) {
	out := make(map[string]any)
	if file != "" {
		if s.loader == nil {
			return nil, fmt.Errorf("load %s: metadata loader not configured", file)
		}
		loaded, err := s.loader.Load(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		for k, v := range loaded {
			out[k] = v
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out, nil
}

// previous fetches the published record, or nil when none exists.
func (s *UploadService) previous(ctx context.Context, index, subject string) (*domain.StructuredRecord, error) {
	rec, err := s.search.GetSubject(ctx, index, subject)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subject %s: %w", subject, err)
	}
	logger.Debug("previous record found for %s at version %s", subject, rec.DC.Version)
	return rec, nil
}

// publish ingests the entry and caches the published record locally.
func (s *UploadService) publish(ctx context.Context, index, subject string, entry domain.CatalogEntry) error {
	logger.Debug("ingesting %s", subject)
	doc := domain.NewIngestDocument(entry)
	if err := ingestAndWait(ctx, s.search, index, doc, s.settings.Ingest.PollInterval, s.settings.Ingest.Timeout); err != nil {
		return err
	}
	if s.records != nil {
		if err := s.records.Save(ctx, subject, entry.Content); err != nil {
			logger.Warn("cache record for %s: %v", subject, err)
		}
	}
	return nil
}

// transferFiles submits every file under localPath below the destination.
func (s *UploadService) transferFiles(
	ctx context.Context,
	transfer driven.TransferClient,
	localPath, destination, protocol string,
	test bool,
) (*domain.TransferResult, error) {
	files, err := s.files.Enumerate(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", localPath, err)
	}

	req := domain.TransferRequest{
		Protocol:            protocol,
		SourceEndpoint:      s.settings.Profile.LocalEndpoint,
		DestinationEndpoint: s.settings.Project.Endpoint,
		Label:               transferLabel,
		Items:               make([]domain.TransferItem, 0, len(files)),
	}
	for _, f := range files {
		abs, err := s.files.Abs(f.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f.LocalPath, err)
		}
		req.Items = append(req.Items, domain.TransferItem{
			LocalPath:  abs,
			RemotePath: s.settings.Project.Path(path.Join(destination, f.RemotePath), test),
		})
	}

	logger.Debug("submitting %d file(s) over %s", len(req.Items), protocol)
	tr, err := transfer.SubmitTransfer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransfer, err)
	}
	return tr, nil
}

func (s *UploadService) recordHistory(ctx context.Context, tr domain.TransferResult, shortPath string) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, tr, shortPath); err != nil {
		logger.Warn("record transfer history for %s: %v", shortPath, err)
	}
}

func lastUpdated(rec domain.StructuredRecord) string {
	if len(rec.DC.Dates) == 0 {
		return "unknown"
	}
	return rec.DC.Dates[len(rec.DC.Dates)-1].Date
}
