package migrations

import "embed"

// FS contains embedded SQLite migrations for moderation storage.
//
//go:embed *.sql
var FS embed.FS
