package handlers

import (
	"errors"

	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// AttachmentHandler handles file uploads attached to test cases.
type AttachmentHandler struct {
	service *services.AttachmentService
	maxSize int64
}

func NewAttachmentHandler(service *services.AttachmentService, maxSize int64) *AttachmentHandler {
	return &AttachmentHandler{service: service, maxSize: maxSize}
}

// Upload handles POST /api/cases/:id/attachments (multipart "file" field)
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	caseID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return badRequestJSON(c, "Missing file")
	}
	if file.Size > h.maxSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": true, "message": "File too large",
		})
	}

	attachment, path, err := h.service.Register(caseID, user.ID, file.Filename, file.Size)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return fiber.ErrInternalServerError
	}

	if err := c.SaveFile(file, path); err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(attachment)
}

// List handles GET /api/cases/:id/attachments
func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	caseID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	attachments, err := h.service.List(caseID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"data": attachments})
}

// Download handles GET /api/attachments/:id
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	attachment, path, err := h.service.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Attachment not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.Download(path, attachment.FileName)
}

// Delete handles DELETE /api/attachments/:id
func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	if err := h.service.Delete(id, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Attachment not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Attachment deleted"})
}
