// Package sqlite provides the SQLite-backed connection provider for the
// shared connection manager.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure the driver is imported. The name "_" means we only want its side effects (registering the driver).
	_ "github.com/mattn/go-sqlite3"
)

// DefaultBusyTimeout is applied when the provider is configured without one.
const DefaultBusyTimeout = 5 * time.Second

// Provider opens and closes connections to a SQLite notebook file. It
// implements conn.Provider.
type Provider struct {
	// Path is the notebook file. Created (with parent directories) on first open.
	Path string
	// BusyTimeout maps to SQLite's _busy_timeout pragma.
	BusyTimeout time.Duration
}

// Open returns a handle to the notebook, creating the file if it does not
// exist. The connection is pinged before it is handed out.
func (p Provider) Open() (*sql.DB, error) {
	if p.Path == "" {
		return nil, fmt.Errorf("sqlite provider: empty path")
	}

	// Parent directory must exist or SQLite fails with SQLITE_CANTOPEN.
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create notebook dir: %w", err)
	}

	timeout := p.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}

	dsn := fmt.Sprintf(
		"file:%s?_busy_timeout=%d&_foreign_keys=on",
		p.Path,
		timeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open failed: %w", err)
	}

	// Ping to verify the connection is alive immediately after opening.
	if err := db.Ping(); err != nil {
		_ = db.Close() // Close on error
		return nil, fmt.Errorf("db ping failed after open: %w", err)
	}

	return db, nil
}

// Close releases the handle previously returned by Open.
func (p Provider) Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("db close failed: %w", err)
	}
	return nil
}
