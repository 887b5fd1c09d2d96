package repository

import (
	"context"

	"noteapi/internal/model"
)

// NoteRepository defines data access for notes using SQL queries only.
// No business logic here — strictly persistence operations.
type NoteRepository interface {
	// Create inserts a new note record.
	// The caller provides ID and timestamps; the stored row is returned.
	Create(ctx context.Context, note *model.Note) (*model.Note, error)

	// FindByID returns a note by its ID, or sql.ErrNoRows if none exists.
	FindByID(ctx context.Context, id string) (*model.Note, error)

	// List returns all notes ordered by created_at descending (newest first).
	List(ctx context.Context) ([]model.Note, error)

	// Update overwrites title/content and refreshes updated_at for the given
	// ID, returning the stored row. Returns sql.ErrNoRows for an unknown ID.
	Update(ctx context.Context, id, title, content string) (*model.Note, error)

	// Delete removes a note by ID. Returns sql.ErrNoRows if no row was deleted
	// so the caller can distinguish a missing note from a successful delete.
	Delete(ctx context.Context, id string) error
}
