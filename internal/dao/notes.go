// Package dao provides access to the notes table. Every operation borrows
// the shared connection for its duration; the DAO never owns or closes the
// underlying handle.
package dao

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jot/jot/internal/conn"
)

var (
	// ErrNotFound is returned when a note is not found
	ErrNotFound = errors.New("note not found")
)

// NoteDAO provides access to the notes table.
type NoteDAO struct {
	mgr *conn.Manager
}

// Note represents a record in the notes table.
type Note struct {
	ID        int64
	Title     string
	Body      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNoteDAO creates a new NoteDAO over the shared connection manager.
func NewNoteDAO(mgr *conn.Manager) *NoteDAO {
	return &NoteDAO{mgr: mgr}
}

// Get retrieves a note by title.
func (d *NoteDAO) Get(title string) (*Note, error) {
	db, err := d.mgr.Acquire()
	if err != nil {
		return nil, err
	}
	defer d.mgr.Release()

	var note Note
	err = db.QueryRow(
		"SELECT id, title, body, created_at, updated_at FROM notes WHERE title = ?",
		title,
	).Scan(&note.ID, &note.Title, &note.Body, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

// Put inserts or updates a note.
func (d *NoteDAO) Put(title string, body []byte) error {
	db, err := d.mgr.Acquire()
	if err != nil {
		return err
	}
	defer d.mgr.Release()

	// Upsert on the unique title index.
	_, err = db.Exec(
		`INSERT INTO notes (title, body) VALUES (?, ?)
		 ON CONFLICT(title) DO UPDATE SET body = excluded.body`,
		title, body,
	)
	if err != nil {
		return fmt.Errorf("failed to put note: %w", err)
	}

	return nil
}

// Delete removes a note by title.
func (d *NoteDAO) Delete(title string) error {
	db, err := d.mgr.Acquire()
	if err != nil {
		return err
	}
	defer d.mgr.Release()

	result, err := db.Exec("DELETE FROM notes WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all note titles.
func (d *NoteDAO) List() ([]string, error) {
	db, err := d.mgr.Acquire()
	if err != nil {
		return nil, err
	}
	defer d.mgr.Release()

	rows, err := db.Query("SELECT title FROM notes ORDER BY title")
	if err != nil {
		return nil, fmt.Errorf("failed to query note titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan note title: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note titles: %w", err)
	}

	return titles, nil
}
