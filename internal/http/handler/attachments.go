package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"noteapi/internal/service"
)

// UploadAttachment stores a multipart file (field name: file) under a note.
func UploadAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID := c.Params("id")
		if _, err := uuid.Parse(noteID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		att, err := svc.Upload(ctx, noteID, f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	}
}

// ListAttachments returns the attachments of a note, newest first.
func ListAttachments(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		noteID := c.Params("id")
		if _, err := uuid.Parse(noteID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		items, err := svc.ListByNote(ctx, noteID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "note not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// AttachmentDownloadURL returns a presigned, time-limited download URL.
func AttachmentDownloadURL(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		u, err := svc.DownloadURL(ctx, id)
		if err != nil {
			if errors.Is(err, service.ErrAttachmentNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"url": u})
	}
}

// DeleteAttachment removes an attachment from storage and the database.
func DeleteAttachment(svc service.AttachmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			if errors.Is(err, service.ErrAttachmentNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "attachment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(noteWriteResponse{Message: "attachment deleted"})
	}
}
