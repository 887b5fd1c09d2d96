package postgres

import (
	"context"
	"database/sql"

	"noteapi/internal/model"
	"noteapi/internal/repository"
)

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

// Create inserts a new note row and returns the stored record. Both
// timestamps are stamped with the database clock, the same source Update's
// refresh uses, so updated_at can never fall behind created_at.
func (r *NotePostgres) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	const q = `
		INSERT INTO notes (id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, title, content, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		note.ID,
		note.Title,
		note.Content,
	)
	var out model.Note
	if err := row.Scan(
		&out.ID,
		&out.Title,
		&out.Content,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single note by its ID.
func (r *NotePostgres) FindByID(ctx context.Context, id string) (*model.Note, error) {
	const q = `
		SELECT id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1
	`
	var n model.Note
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns all notes ordered newest first.
func (r *NotePostgres) List(ctx context.Context) ([]model.Note, error) {
	const q = `
		SELECT id, title, content, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID,
			&n.Title,
			&n.Content,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Update overwrites title/content, refreshes updated_at with the database
// clock, and returns the stored row. sql.ErrNoRows surfaces for unknown IDs.
func (r *NotePostgres) Update(ctx context.Context, id, title, content string) (*model.Note, error) {
	const q = `
		UPDATE notes
		SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, title, content, created_at, updated_at
	`
	var n model.Note
	if err := r.db.QueryRowContext(ctx, q, id, title, content).Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete removes a note by ID. A delete that matched no row reports
// sql.ErrNoRows so the service can map it to its not-found error.
func (r *NotePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM notes WHERE id = $1`
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
