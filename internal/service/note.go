package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"noteapi/internal/model"
	"noteapi/internal/repository"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrNotFound        = errors.New("note not found")
)

// IsValidationError reports whether err is one of the field validation
// failures, as opposed to a not-found or store fault.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrContentRequired)
}

// NoteService defines the use cases for handling notes.
// Expected failures come back as the sentinel errors above; anything else is
// a store fault that has already been logged with context.
type NoteService interface {
	// List returns all notes ordered by creation time descending (newest first).
	List(ctx context.Context) ([]model.Note, error)

	// Get returns a single note by its ID.
	Get(ctx context.Context, id string) (*model.Note, error)

	// Create validates title/content, persists a new note and returns it
	// with store-assigned timestamps. A note failing validation never
	// reaches the store.
	Create(ctx context.Context, title, content string) (*model.Note, error)

	// Update overwrites title/content of an existing note, refreshes its
	// updated timestamp and returns the stored result.
	Update(ctx context.Context, id, title, content string) (*model.Note, error)

	// Delete removes a note permanently. There is no tombstone and no undo.
	Delete(ctx context.Context, id string) error
}

// noteService is a concrete implementation of NoteService.
type noteService struct {
	repo   repository.NoteRepository
	logger *zap.Logger
}

// NewNoteService constructs a new NoteService.
func NewNoteService(repo repository.NoteRepository, logger *zap.Logger) NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noteService{repo: repo, logger: logger}
}

func validateFields(title, content string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if content == "" {
		return ErrContentRequired
	}
	return nil
}

func (s *noteService) List(ctx context.Context) ([]model.Note, error) {
	notes, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("list notes failed", zap.Error(err))
		return nil, err
	}
	return notes, nil
}

func (s *noteService) Get(ctx context.Context, id string) (*model.Note, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("get note failed", zap.String("note_id", id), zap.Error(err))
		return nil, err
	}
	return note, nil
}

func (s *noteService) Create(ctx context.Context, title, content string) (*model.Note, error) {
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	// Timestamps are assigned by the store from its own clock; mixing the
	// application clock in would let updated_at precede created_at under skew.
	note := &model.Note{
		ID:      uuid.New().String(),
		Title:   title,
		Content: content,
	}
	stored, err := s.repo.Create(ctx, note)
	if err != nil {
		s.logger.Error("create note failed", zap.Error(err))
		return nil, err
	}
	return stored, nil
}

func (s *noteService) Update(ctx context.Context, id, title, content string) (*model.Note, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := validateFields(title, content); err != nil {
		return nil, err
	}

	stored, err := s.repo.Update(ctx, id, title, content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error("update note failed", zap.String("note_id", id), zap.Error(err))
		return nil, err
	}
	return stored, nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		s.logger.Error("delete note failed", zap.String("note_id", id), zap.Error(err))
		return err
	}
	return nil
}
