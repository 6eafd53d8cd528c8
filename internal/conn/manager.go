// Package conn manages the single shared connection to a jot notebook.
//
// SQLite allows only one writable connection to a database file at a time.
// Opening a connection per call site trips the file lock under concurrency,
// and sharing a bare *sql.DB invites use-after-close when one consumer
// closes it while another is mid-query. Manager solves both with a demand
// counter: the connection is opened on the first Acquire, every concurrent
// holder borrows the same handle, and the connection is closed when the
// last holder calls Release.
package conn

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jot/jot/internal/log"
)

// Common errors returned by the conn package.
var (
	ErrNilProvider        = errors.New("nil connection provider")
	ErrNotInitialized     = errors.New("connection manager not initialized")
	ErrAlreadyInitialized = errors.New("connection manager already initialized")
	ErrUnbalancedRelease  = errors.New("release without matching acquire")
	ErrShutdown           = errors.New("connection manager is shut down")
)

// Provider opens and closes the underlying database connection. The manager
// treats the handle as opaque; schema and queries are the caller's business.
type Provider interface {
	Open() (*sql.DB, error)
	Close(db *sql.DB) error
}

// Manager hands out a shared database connection to concurrent callers.
//
// Callers bracket use with Acquire and Release. The handle returned by
// Acquire is borrowed: callers must never close it themselves, and must not
// retain it past their matching Release.
type Manager struct {
	provider Provider

	// mu guards everything below. The open/close calls happen while holding
	// mu; the counter transition and its side effect must be one unit, or a
	// racing caller could observe demand > 0 with no connection, or close a
	// connection a concurrent Acquire is about to hand out.
	mu     sync.Mutex
	db     *sql.DB
	demand int
	dead   bool
}

// New creates a Manager around the given provider.
func New(provider Provider) (*Manager, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return &Manager{provider: provider}, nil
}

// Acquire borrows the shared connection, opening it if this caller is the
// first. Every successful caller receives the same handle until demand drops
// back to zero. The caller must pair this with exactly one Release.
func (m *Manager) Acquire() (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dead {
		return nil, ErrShutdown
	}

	if m.demand == 0 {
		db, err := m.provider.Open()
		if err != nil {
			// Counter was never incremented, so the manager stays in the
			// closed state and a later Acquire retries the open.
			return nil, fmt.Errorf("open connection: %w", err)
		}
		m.db = db
		log.L.Debug().Msg("shared connection opened")
	}

	m.demand++
	return m.db, nil
}

// Release returns a borrowed connection. When the last outstanding borrow is
// released, the underlying connection is closed. Calling Release without a
// matching Acquire is a caller bug and returns ErrUnbalancedRelease without
// touching the counter.
func (m *Manager) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.demand == 0 {
		return ErrUnbalancedRelease
	}

	m.demand--
	if m.demand > 0 {
		return nil
	}

	db := m.db
	// Clear the slot before closing. Even if the close fails the handle is
	// assumed unusable; keeping it would hand a poisoned connection to the
	// next Acquire.
	m.db = nil
	if err := m.provider.Close(db); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	log.L.Debug().Msg("shared connection closed")
	return nil
}

// Demand reports the number of outstanding borrows.
func (m *Manager) Demand() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.demand
}

// Shutdown force-closes the connection regardless of outstanding borrows and
// marks the manager unusable. Intended for process exit; any handle still
// borrowed becomes invalid. Safe to call more than once.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dead {
		return nil
	}
	m.dead = true

	if m.demand > 0 {
		log.L.Warn().Int("demand", m.demand).Msg("shutdown with outstanding borrows")
	}
	m.demand = 0

	if m.db == nil {
		return nil
	}
	db := m.db
	m.db = nil
	if err := m.provider.Close(db); err != nil {
		return fmt.Errorf("close connection: %w", err)
	}
	return nil
}
