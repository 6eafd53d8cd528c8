package dao

import (
	"fmt"

	"github.com/jot/jot/internal/conn"
	"github.com/jot/jot/internal/crypto"
)

// noteBodyContext binds derived subkeys to their purpose so a notebook
// master key can later grow other uses without key reuse.
const noteBodyContext = "jot/note-body/v1"

// SecureNoteDAO wraps NoteDAO, sealing note bodies at rest.
type SecureNoteDAO struct {
	dao *NoteDAO
	key []byte
}

// NewSecureNoteDAO creates a SecureNoteDAO. The body key is derived from the
// notebook master key, never used raw.
func NewSecureNoteDAO(mgr *conn.Manager, masterKey []byte) (*SecureNoteDAO, error) {
	key, err := crypto.Derive(masterKey, noteBodyContext, 32)
	if err != nil {
		return nil, fmt.Errorf("derive note body key: %w", err)
	}
	return &SecureNoteDAO{
		dao: NewNoteDAO(mgr),
		key: key,
	}, nil
}

// Get retrieves and unseals a note body by title.
func (d *SecureNoteDAO) Get(title string) ([]byte, error) {
	note, err := d.dao.Get(title)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.Open(d.key, note.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal note %s: %w", title, err)
	}

	return plaintext, nil
}

// Put seals and stores a note body.
func (d *SecureNoteDAO) Put(title string, body []byte) error {
	sealed, err := crypto.Seal(d.key, body)
	if err != nil {
		return fmt.Errorf("failed to seal note %s: %w", title, err)
	}

	return d.dao.Put(title, sealed)
}

// Delete removes a note by title.
func (d *SecureNoteDAO) Delete(title string) error {
	return d.dao.Delete(title)
}

// List returns all note titles. Titles are not sealed.
func (d *SecureNoteDAO) List() ([]string, error) {
	return d.dao.List()
}
