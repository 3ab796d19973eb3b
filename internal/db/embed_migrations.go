package db

import "embed"

// MigrationFS embeds the SQL migrations for users, tasks and audit_logs.
// Applied by internal/db/migrate (cmd/migrate).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
