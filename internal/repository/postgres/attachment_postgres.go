package postgres

import (
	"context"
	"database/sql"

	"noteapi/internal/model"
	"noteapi/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

// Create inserts a new attachment row and returns the stored record.
// created_at comes from the database clock, same as the notes table.
func (r *AttachmentPostgres) Create(ctx context.Context, att *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, note_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, note_id, filename, storage_path, size, content_type, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		att.ID,
		att.NoteID,
		att.Filename,
		att.StoragePath,
		att.Size,
		att.ContentType,
	)
	var out model.Attachment
	if err := row.Scan(
		&out.ID,
		&out.NoteID,
		&out.Filename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single attachment by its ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `
		SELECT id, note_id, filename, storage_path, size, content_type, created_at
		FROM attachments
		WHERE id = $1
	`
	var a model.Attachment
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.NoteID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByNoteID returns the attachments of a note, newest first.
func (r *AttachmentPostgres) ListByNoteID(ctx context.Context, noteID string) ([]model.Attachment, error) {
	const q = `
		SELECT id, note_id, filename, storage_path, size, content_type, created_at
		FROM attachments
		WHERE note_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.NoteID,
			&a.Filename,
			&a.StoragePath,
			&a.Size,
			&a.ContentType,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Delete removes an attachment by ID, reporting sql.ErrNoRows when nothing matched.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
