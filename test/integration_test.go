package test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/jot/jot/internal/conn"
	"github.com/jot/jot/internal/crypto"
	"github.com/jot/jot/internal/dao"
	"github.com/jot/jot/internal/migrations"
	"github.com/jot/jot/internal/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNotebookLifecycle drives the full stack the way the CLI does: one
// provider, one shared connection manager, schema bootstrap, then mixed
// plain and sealed note traffic from concurrent goroutines.
func TestNotebookLifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	notebookPath := filepath.Join(tmpDir, "notebook.db")

	mgr, err := conn.New(sqlite.Provider{Path: notebookPath})
	require.NoError(t, err, "Creating connection manager failed")

	require.NoError(t, migrations.Bootstrap(mgr), "Bootstrap failed")
	assert.Equal(t, 0, mgr.Demand(), "Bootstrap must release its borrow")

	masterKey, err := crypto.Generate(32)
	require.NoError(t, err, "Generating master key failed")

	plain := dao.NewNoteDAO(mgr)
	secure, err := dao.NewSecureNoteDAO(mgr, masterKey)
	require.NoError(t, err, "Creating secure DAO failed")

	// Concurrent writers through both DAOs share one connection.
	const each = 10
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < each; i++ {
			title := "plain-" + string(rune('a'+i))
			assert.NoError(t, plain.Put(title, []byte("plain body")), "Plain put failed")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < each; i++ {
			title := "sealed-" + string(rune('a'+i))
			assert.NoError(t, secure.Put(title, []byte("sealed body")), "Sealed put failed")
		}
	}()
	wg.Wait()

	titles, err := plain.List()
	require.NoError(t, err, "List failed")
	assert.Len(t, titles, 2*each, "All writes should be visible")

	// Sealed notes round-trip through the secure DAO only.
	body, err := secure.Get("sealed-a")
	require.NoError(t, err, "Sealed get failed")
	assert.Equal(t, []byte("sealed body"), body, "Sealed body mismatch")

	raw, err := plain.Get("sealed-a")
	require.NoError(t, err, "Raw get of sealed note failed")
	assert.NotEqual(t, []byte("sealed body"), raw.Body, "Sealed body must not be stored in the clear")

	// All traffic done: the manager is back in the closed state.
	assert.Equal(t, 0, mgr.Demand(), "All borrows must be released")

	require.NoError(t, mgr.Shutdown(), "Shutdown failed")
	_, err = mgr.Acquire()
	assert.ErrorIs(t, err, conn.ErrShutdown, "Acquire after shutdown should fail")
}
