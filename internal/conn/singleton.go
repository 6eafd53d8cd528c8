package conn

import "sync"

// The process-wide manager. Application code wires one Manager at startup
// via Initialize and reaches it through Instance; tests and library code
// should prefer constructing their own Manager with New.
var (
	defaultMu sync.Mutex
	defaultM  *Manager
)

// Initialize installs the process-wide manager. Exactly one call takes
// effect: under a concurrent first-call race one caller wins and the rest
// get ErrAlreadyInitialized, so a caller whose provider was not adopted
// finds out instead of silently writing through someone else's database.
func Initialize(provider Provider) error {
	if provider == nil {
		return ErrNilProvider
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultM != nil {
		return ErrAlreadyInitialized
	}
	m, err := New(provider)
	if err != nil {
		return err
	}
	defaultM = m
	return nil
}

// Instance returns the process-wide manager installed by Initialize.
func Instance() (*Manager, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultM == nil {
		return nil, ErrNotInitialized
	}
	return defaultM, nil
}

// Reset discards the process-wide manager without closing anything.
// Test helper; production code has no reason to call it.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultM = nil
}
