// Package refreshdb registers the bun migrations for the refresh
// orchestrator's schema: refresh_jobs, refresh_watchers, wallet_locks.
package refreshdb

import "github.com/uptrace/bun/migrate"

// Migrations is the registry every migration file in this package
// appends itself to via init().
var Migrations = migrate.NewMigrations()
