package migrations

import "embed"

// FS contains the embedded SQLite migrations shared by every namespace.
//
//go:embed *.sql
var FS embed.FS
