package repository

import (
	"context"

	"noteapi/internal/model"
)

// AttachmentRepository defines data access for note attachments.
type AttachmentRepository interface {
	// Create inserts a new attachment record and returns the stored row.
	Create(ctx context.Context, att *model.Attachment) (*model.Attachment, error)

	// FindByID returns an attachment by its ID, or sql.ErrNoRows if none exists.
	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByNoteID returns all attachments of a note, newest first.
	ListByNoteID(ctx context.Context, noteID string) ([]model.Attachment, error)

	// Delete removes an attachment by ID. Returns sql.ErrNoRows if no row was deleted.
	Delete(ctx context.Context, id string) error
}
