package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"noteapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var attachmentColumns = []string{"id", "note_id", "filename", "storage_path", "size", "content_type", "created_at"}

func TestAttachmentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	att := &model.Attachment{
		ID:          "att-id",
		NoteID:      "note-id",
		Filename:    "scan.pdf",
		StoragePath: "attachments/scan.pdf",
		Size:        512,
		ContentType: "application/pdf",
	}

	// created_at is stamped by the database, same as the notes table
	dbNow := time.Now().UTC()
	rows := sqlmock.NewRows(attachmentColumns).
		AddRow(att.ID, att.NoteID, att.Filename, att.StoragePath, att.Size, att.ContentType, dbNow)

	mock.ExpectQuery(`VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, now\(\)\)`).
		WithArgs(att.ID, att.NoteID, att.Filename, att.StoragePath, att.Size, att.ContentType).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, att)

	assert.NoError(t, err)
	assert.Equal(t, att.ID, result.ID)
	assert.Equal(t, dbNow, result.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentPostgres_ListByNoteID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(attachmentColumns).
		AddRow("att-1", "note-id", "a.txt", "attachments/a.txt", 10, "text/plain", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM attachments WHERE note_id = ?").
		WithArgs("note-id").
		WillReturnRows(rows)

	items, err := repo.ListByNoteID(ctx, "note-id")

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "note-id", items[0].NoteID)
}

func TestAttachmentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAttachmentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM attachments WHERE id = ?").
			WithArgs("att-id").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "att-id"))
	})

	t.Run("missing row reports ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM attachments WHERE id = ?").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, "missing"), sql.ErrNoRows)
	})
}
