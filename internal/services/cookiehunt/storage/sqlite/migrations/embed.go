package migrations

import "embed"

// FS contains embedded SQLite migrations for cookie hunt storage.
//
//go:embed *.sql
var FS embed.FS
