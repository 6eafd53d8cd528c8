package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	provider := Provider{
		Path:        filepath.Join(tmpDir, "nested", "notebook.db"),
		BusyTimeout: time.Second,
	}

	db, err := provider.Open()
	require.NoError(t, err, "Open failed")
	require.NotNil(t, db, "Open returned nil handle")

	// The handle is live, not just constructed.
	_, err = db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err, "Exec on fresh connection failed")

	require.NoError(t, provider.Close(db), "Close failed")
}

func TestProviderEmptyPath(t *testing.T) {
	_, err := Provider{}.Open()
	assert.Error(t, err, "Open with empty path should fail")
}

func TestProviderCloseNil(t *testing.T) {
	assert.NoError(t, Provider{}.Close(nil), "Close of nil handle should be a no-op")
}

func TestProviderForeignKeysOn(t *testing.T) {
	provider := Provider{Path: filepath.Join(t.TempDir(), "notebook.db")}

	db, err := provider.Open()
	require.NoError(t, err, "Open failed")
	defer provider.Close(db)

	var enabled int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err, "Querying foreign_keys pragma failed")
	assert.Equal(t, 1, enabled, "Foreign keys should be enabled by the DSN")
}
