package handlers

import (
	"errors"

	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// CaseHandler handles HTTP requests for test cases and tags.
type CaseHandler struct {
	service *services.CaseService
}

func NewCaseHandler(service *services.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// CreateCase handles POST /api/plans/:id/cases
func (h *CaseHandler) CreateCase(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	planID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Title          string   `json:"title"`
		Steps          []string `json:"steps"`
		ExpectedResult string   `json:"expected_result"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	tc, err := h.service.CreateCase(planID, user.ID, req.Title, req.Steps, req.ExpectedResult)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Plan not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(tc)
}

// GetCase handles GET /api/cases/:id
func (h *CaseHandler) GetCase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	tc, err := h.service.GetCase(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(tc)
}

// UpdateCase handles PUT /api/cases/:id
func (h *CaseHandler) UpdateCase(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Title          string   `json:"title"`
		Steps          []string `json:"steps"`
		ExpectedResult string   `json:"expected_result"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	tc, err := h.service.UpdateCase(id, user.ID, req.Title, req.Steps, req.ExpectedResult)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(tc)
}

// UpdateStatus handles PATCH /api/cases/:id/status
func (h *CaseHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	tc, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(tc)
}

// DeleteCase handles DELETE /api/cases/:id
func (h *CaseHandler) DeleteCase(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	if err := h.service.DeleteCase(id, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Case deleted"})
}

// TagCase handles POST /api/cases/:id/tags
func (h *CaseHandler) TagCase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	tag, err := h.service.TagCase(id, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UntagCase handles DELETE /api/cases/:id/tags/:tagID
func (h *CaseHandler) UntagCase(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}
	tagID, err := paramID(c, "tagID")
	if err != nil {
		return badRequestJSON(c, "Invalid tag id")
	}

	if err := h.service.UntagCase(id, tagID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Case not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"message": "Tag removed"})
}

// ListTags handles GET /api/tags
func (h *CaseHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.service.ListTags()
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"data": tags})
}

// ListCasesByTag handles GET /api/tags/:id/cases
func (h *CaseHandler) ListCasesByTag(c *fiber.Ctx) error {
	tagID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	cases, err := h.service.ListCasesByTag(tagID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"data": cases})
}
