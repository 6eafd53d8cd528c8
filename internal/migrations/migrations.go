// Package migrations manages the notebook schema.
package migrations

import (
	"fmt"
	"time"

	"github.com/jot/jot/internal/conn"
)

// Migration represents a single schema migration.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Runner applies migrations over a connection borrowed from the shared
// connection manager.
type Runner struct {
	mgr        *conn.Manager
	migrations []Migration
}

// NewRunner creates a migrations runner.
func NewRunner(mgr *conn.Manager) *Runner {
	return &Runner{
		mgr:        mgr,
		migrations: []Migration{},
	}
}

// AddMigration registers a migration. Migrations run in the order added and
// versions must be unique.
func (r *Runner) AddMigration(version int, description, sql string) {
	r.migrations = append(r.migrations, Migration{
		Version:     version,
		Description: description,
		SQL:         sql,
	})
}

// Run applies all pending migrations. The connection is borrowed for the
// duration of the run and released before returning. Already-applied
// migrations are skipped, so re-running is safe.
func (r *Runner) Run() error {
	db, err := r.mgr.Acquire()
	if err != nil {
		return fmt.Errorf("acquire connection for migrations: %w", err)
	}
	defer r.mgr.Release()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS _migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Query("SELECT version FROM _migrations")
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating applied migrations: %w", err)
	}
	rows.Close()

	for _, migration := range r.migrations {
		if applied[migration.Version] {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}

		_, err = tx.Exec(
			"INSERT INTO _migrations (version, description, applied_at) VALUES (?, ?, ?)",
			migration.Version,
			migration.Description,
			time.Now().UTC(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
