// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The reconciliation engine (Reconciler, FilesModified, CarryOver,
// MetadataModified) decides between a new dataset, a content change that
// bumps the version, and a metadata-only update. UploadService sequences
// scraping, reconciliation, catalog ingest and transfer.
//
// Services are pure Go with no CGO.
package services
