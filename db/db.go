// Package db embeds the schema migrations and demo seed data.
package db

import "embed"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var Migrations embed.FS

//go:embed seed/*.json
var SeedFiles embed.FS

const (
	SQLiteMigrationsDir   = "migrations/sqlite"
	PostgresMigrationsDir = "migrations/postgres"
)
