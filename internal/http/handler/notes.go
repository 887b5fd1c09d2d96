package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"noteapi/internal/model"
	"noteapi/internal/service"
)

// storeTimeout bounds every service call so a hung store surfaces as a
// server error instead of blocking the request forever.
const storeTimeout = 5 * time.Second

// noteRequest is the JSON body of create/update calls.
type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// noteWriteResponse wraps write results. The note body is included (see
// DESIGN.md); the message field keeps confirmation-only clients working.
// Note stays nil on delete confirmations and is omitted from the JSON.
type noteWriteResponse struct {
	Message string      `json:"message"`
	Note    *model.Note `json:"note,omitempty"`
}

func storeCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), storeTimeout)
}

// writeValidationError maps a field validation failure to 422, or to the
// historical 500 when legacy mode is enabled.
func writeValidationError(c *fiber.Ctx, err error, legacy bool) error {
	if legacy {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
}

// ListNotes returns all notes, newest first.
func ListNotes(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := storeCtx(c)
		defer cancel()

		notes, err := svc.List(ctx)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(notes)
	}
}

// GetNote returns a single note by ID.
func GetNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		note, err := svc.Get(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(note)
	}
}

// CreateNote persists a new note from the request body.
func CreateNote(svc service.NoteService, legacyValidation bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body noteRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		note, err := svc.Create(ctx, body.Title, body.Content)
		if err != nil {
			if service.IsValidationError(err) {
				return writeValidationError(c, err, legacyValidation)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(noteWriteResponse{
			Message: "note created",
			Note:    note,
		})
	}
}

// UpdateNote overwrites title/content of an existing note.
func UpdateNote(svc service.NoteService, legacyValidation bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var body noteRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		note, err := svc.Update(ctx, id, body.Title, body.Content)
		if err != nil {
			if service.IsValidationError(err) {
				return writeValidationError(c, err, legacyValidation)
			}
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(noteWriteResponse{
			Message: "note updated",
			Note:    note,
		})
	}
}

// DeleteNote removes a note permanently.
func DeleteNote(svc service.NoteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(noteWriteResponse{Message: "note deleted"})
	}
}
