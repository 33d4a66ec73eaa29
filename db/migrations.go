// Package db holds the SQL migrations applied by the migrate command.
package db

import "embed"

// Migrations is rooted at the module's db directory; goose reads MigrationsDir.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
