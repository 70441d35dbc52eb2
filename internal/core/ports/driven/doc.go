// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TransferClient: Remote directory listing and file transfer
//   - SearchClient: Catalog lookup, ingest and task status
//   - LocalFiles: File enumeration, hashing and MIME detection
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ColumnAnalyzer: Column statistics. Without it, manifests carry no field metadata.
//   - MetadataLoader: User metadata files. Without it, only inline overrides are accepted.
//   - RecordStore: Local cache of published records, consulted by updates.
//   - TransferHistory: Local transfer log. Without it, transfers are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
