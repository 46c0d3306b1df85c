package db

import "embed"

// One migration directory per dialect: SQLite and PostgreSQL disagree on
// trigger syntax, so the schema is maintained twice with matching
// version numbers.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS
