// Package migrations embeds the per-backend schema migration files so a
// single surveywizard binary ships with its schema.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
