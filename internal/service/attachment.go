package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"noteapi/internal/model"
	"noteapi/internal/repository"
	"noteapi/internal/storage"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrReaderNil          = errors.New("reader is nil")
)

// presignExpiry bounds how long a generated download link stays valid.
const presignExpiry = 15 * time.Minute

// AttachmentService defines the use cases for note attachments.
type AttachmentService interface {
	// Upload streams the content to object storage, saves metadata to the DB,
	// and rolls back the stored object if the DB save fails.
	// originalFilename is used only to extract the extension; the object key
	// is UUID-based.
	Upload(ctx context.Context, noteID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error)

	// ListByNote returns the attachments of a note, newest first.
	ListByNote(ctx context.Context, noteID string) ([]model.Attachment, error)

	// DownloadURL returns a presigned, time-limited URL for the attachment content.
	DownloadURL(ctx context.Context, id string) (string, error)

	// Delete removes the attachment from both storage and the repository.
	Delete(ctx context.Context, id string) error
}

type attachmentService struct {
	store    storage.Storage
	repo     repository.AttachmentRepository
	noteRepo repository.NoteRepository
	logger   *zap.Logger
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(store storage.Storage, repo repository.AttachmentRepository, noteRepo repository.NoteRepository, logger *zap.Logger) AttachmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &attachmentService{store: store, repo: repo, noteRepo: noteRepo, logger: logger}
}

func (s *attachmentService) Upload(ctx context.Context, noteID string, r io.Reader, originalFilename, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	// The attachment must hang off an existing note.
	if _, err := s.noteRepo.FindByID(ctx, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("attachment upload: note lookup failed", zap.String("note_id", noteID), zap.Error(err))
		return nil, err
	}

	ext := filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("attachments", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		s.logger.Error("attachment upload to storage failed", zap.String("note_id", noteID), zap.Error(err))
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	att := &model.Attachment{
		ID:          uuid.New().String(),
		NoteID:      noteID,
		Filename:    originalFilename,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: contentType,
	}
	stored, err := s.repo.Create(ctx, att)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("attachment rollback delete failed", zap.String("key", key), zap.Error(delErr))
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		s.logger.Error("attachment db save failed", zap.String("note_id", noteID), zap.Error(err))
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) ListByNote(ctx context.Context, noteID string) ([]model.Attachment, error) {
	if _, err := s.noteRepo.FindByID(ctx, noteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("list attachments: note lookup failed", zap.String("note_id", noteID), zap.Error(err))
		return nil, err
	}

	items, err := s.repo.ListByNoteID(ctx, noteID)
	if err != nil {
		s.logger.Error("list attachments failed", zap.String("note_id", noteID), zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *attachmentService) DownloadURL(ctx context.Context, id string) (string, error) {
	att, err := s.findAttachment(ctx, id)
	if err != nil {
		return "", err
	}

	u, err := s.store.PresignGet(ctx, att.StoragePath, presignExpiry)
	if err != nil {
		s.logger.Error("presign attachment failed", zap.String("attachment_id", id), zap.Error(err))
		return "", fmt.Errorf("presign: %w", err)
	}
	return u, nil
}

func (s *attachmentService) Delete(ctx context.Context, id string) error {
	att, err := s.findAttachment(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first. A storage failure keeps the row for retry.
	// A row-delete failure afterwards leaves the row pointing at a gone
	// object until the delete is retried; the object itself never leaks
	// unreferenced.
	if err := s.store.Delete(ctx, att.StoragePath); err != nil {
		s.logger.Error("delete attachment object failed", zap.String("attachment_id", id), zap.Error(err))
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("delete attachment row failed", zap.String("attachment_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *attachmentService) findAttachment(ctx context.Context, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	att, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		s.logger.Error("find attachment failed", zap.String("attachment_id", id), zap.Error(err))
		return nil, err
	}
	return att, nil
}
