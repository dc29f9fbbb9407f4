// Package migrations embeds the definition-store schema files per driver,
// so the insight binary migrates its own database without shipping SQL
// files alongside it.
package migrations

import "embed"

// SqliteMigrations holds the sqlite schema, used in development and tests.
//
//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

// PostgresMigrations holds the postgres schema (JSONB document columns).
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS
