package handlers

import (
	"errors"

	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for test-case comments.
type CommentHandler struct {
	service *services.CommentService
}

func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// CreateComment handles POST /api/cases/:id/comments
func (h *CommentHandler) CreateComment(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	caseID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	comment, err := h.service.CreateComment(caseID, user.ID, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/cases/:id/comments
func (h *CommentHandler) ListComments(c *fiber.Ctx) error {
	caseID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	comments, err := h.service.ListComments(caseID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"data": comments})
}

// DeleteComment handles DELETE /api/comments/:id
func (h *CommentHandler) DeleteComment(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	if err := h.service.DeleteComment(id, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Comment not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
