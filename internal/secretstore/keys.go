package secretstore

import (
	"fmt"

	"github.com/jot/jot/internal/crypto"
)

// MasterKeySize is the size of a notebook master key in bytes.
const MasterKeySize = 32

// LoadOrCreate returns the master key stored under name, generating and
// persisting a fresh one on first use.
func LoadOrCreate(store Store, name string) ([]byte, error) {
	if key, err := store.Get(name); err == nil && len(key) == MasterKeySize {
		return key, nil
	}

	key, err := crypto.Generate(MasterKeySize)
	if err != nil {
		return nil, fmt.Errorf("generate master key: %w", err)
	}
	if err := store.Put(name, key); err != nil {
		return nil, fmt.Errorf("store master key: %w", err)
	}
	return key, nil
}
