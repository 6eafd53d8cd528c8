package migrations

import (
	"path/filepath"
	"testing"

	"github.com/jot/jot/internal/conn"
	"github.com/jot/jot/internal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *conn.Manager {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "migrations_test.db")
	t.Logf("Test notebook path: %s", dbPath)

	mgr, err := conn.New(sqlite.Provider{Path: dbPath})
	require.NoError(t, err, "Creating connection manager failed")
	t.Cleanup(func() { mgr.Shutdown() })
	return mgr
}

func countMigrations(t *testing.T, mgr *conn.Manager) int {
	db, err := mgr.Acquire()
	require.NoError(t, err, "Acquire failed")
	defer mgr.Release()

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count)
	require.NoError(t, err, "Counting migrations failed")
	return count
}

func TestMigrations(t *testing.T) {
	mgr := newManager(t)
	runner := NewRunner(mgr)

	runner.AddMigration(1, "Create test table", `
		CREATE TABLE test_table (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)
	`)
	runner.AddMigration(2, "Add column to test table", `
		ALTER TABLE test_table ADD COLUMN description TEXT
	`)

	err := runner.Run()
	require.NoError(t, err, "Running migrations failed")
	assert.Equal(t, 2, countMigrations(t, mgr), "Expected 2 migrations to be recorded")

	// Schema landed as expected.
	db, err := mgr.Acquire()
	require.NoError(t, err, "Acquire failed")
	_, err = db.Exec("INSERT INTO test_table (id, name, description) VALUES (1, 'Test', 'Description')")
	require.NoError(t, mgr.Release(), "Release failed")
	require.NoError(t, err, "Inserting into test_table failed")

	// Idempotence: re-running changes nothing.
	err = runner.Run()
	require.NoError(t, err, "Re-running migrations failed")
	assert.Equal(t, 2, countMigrations(t, mgr), "Expected still 2 migrations to be recorded")

	// New migrations apply on the next run.
	runner.AddMigration(3, "Add another column", `
		ALTER TABLE test_table ADD COLUMN created_at TIMESTAMP
	`)
	err = runner.Run()
	require.NoError(t, err, "Running with new migration failed")
	assert.Equal(t, 3, countMigrations(t, mgr), "Expected 3 migrations to be recorded")

	// The runner releases its borrow each run.
	assert.Equal(t, 0, mgr.Demand(), "Runner must balance acquire and release")
}

func TestMigrationFailureRollsBack(t *testing.T) {
	mgr := newManager(t)
	runner := NewRunner(mgr)

	runner.AddMigration(1, "Broken migration", `THIS IS NOT SQL`)

	err := runner.Run()
	require.Error(t, err, "Broken migration should fail")
	assert.Equal(t, 0, mgr.Demand(), "Runner must release its borrow on failure")

	// The failed migration was not recorded.
	assert.Equal(t, 0, countMigrations(t, mgr), "Failed migration must not be recorded")
}

func TestBootstrap(t *testing.T) {
	mgr := newManager(t)

	require.NoError(t, Bootstrap(mgr), "Bootstrap failed")
	// Bootstrap is idempotent.
	require.NoError(t, Bootstrap(mgr), "Second bootstrap failed")

	db, err := mgr.Acquire()
	require.NoError(t, err, "Acquire failed")
	defer mgr.Release()

	_, err = db.Exec("INSERT INTO notes (title, body) VALUES ('a', x'00')")
	require.NoError(t, err, "Inserting into notes failed")

	// The unique title index is in place.
	_, err = db.Exec("INSERT INTO notes (title, body) VALUES ('a', x'00')")
	assert.Error(t, err, "Duplicate title should violate the unique index")
}
