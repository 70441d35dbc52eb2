// Package migrations holds the versioned schema of the local pilot
// database: the record cache and the transfer log.
package migrations

import "embed"

// FS holds the numbered up and down migrations.
//
//go:embed *.sql
var FS embed.FS
