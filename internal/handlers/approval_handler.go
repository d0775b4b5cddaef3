package handlers

import (
	"errors"

	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ApprovalHandler handles HTTP requests for test-plan reviews.
type ApprovalHandler struct {
	service *services.ApprovalService
}

func NewApprovalHandler(service *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// Review handles POST /api/plans/:id/approvals
func (h *ApprovalHandler) Review(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	planID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	approval, err := h.service.Review(planID, user.ID, req.Status, req.Comment)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Plan not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(approval)
}

// ListApprovals handles GET /api/plans/:id/approvals
func (h *ApprovalHandler) ListApprovals(c *fiber.Ctx) error {
	planID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	approvals, err := h.service.ListApprovals(planID)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	approved, err := h.service.IsApproved(planID)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{"data": approvals, "approved": approved})
}
