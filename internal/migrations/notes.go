package migrations

import "github.com/jot/jot/internal/conn"

// InitNoteMigrations adds the migrations for the notes table.
func InitNoteMigrations(runner *Runner) {
	// Migration 1: Create the notes table
	runner.AddMigration(
		1,
		"Create notes table",
		`CREATE TABLE notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)

	// Migration 2: Create index on note title
	runner.AddMigration(
		2,
		"Create index on note title",
		`CREATE UNIQUE INDEX idx_notes_title ON notes(title)`,
	)

	// Migration 3: Create trigger to update the updated_at timestamp
	runner.AddMigration(
		3,
		"Create trigger for updated_at",
		`CREATE TRIGGER trig_notes_updated_at
		AFTER UPDATE ON notes
		BEGIN
			UPDATE notes SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
		END`,
	)

	// Migration 4: Create metadata table for notebook information
	runner.AddMigration(
		4,
		"Create metadata table",
		`CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	)
}

// Bootstrap initializes the notebook schema through the shared connection.
func Bootstrap(mgr *conn.Manager) error {
	runner := NewRunner(mgr)
	InitNoteMigrations(runner)
	return runner.Run()
}
