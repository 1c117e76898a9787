// Package migrations embeds the SQLite schema for the shared store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
