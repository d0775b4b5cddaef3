package handlers

import (
	"errors"
	"strconv"

	"github.com/casetrackapp/backend/internal/dto"
	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// FeatureHandler handles HTTP requests for features and test plans.
type FeatureHandler struct {
	service *services.FeatureService
}

func NewFeatureHandler(service *services.FeatureService) *FeatureHandler {
	return &FeatureHandler{service: service}
}

// CreateFeature handles POST /api/features
func (h *FeatureHandler) CreateFeature(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	feature, err := h.service.CreateFeature(user.ID, req.Name, req.Description)
	if err != nil {
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(feature)
}

// ListFeatures handles GET /api/features
func (h *FeatureHandler) ListFeatures(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	features, total, err := h.service.ListFeatures(limit, offset)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{
		"data": features, "total": total,
		"limit": limit, "offset": offset,
	})
}

// GetFeature handles GET /api/features/:id
func (h *FeatureHandler) GetFeature(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	feature, err := h.service.GetFeature(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Feature not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(feature)
}

// UpdateFeature handles PUT /api/features/:id
func (h *FeatureHandler) UpdateFeature(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	feature, err := h.service.UpdateFeature(id, user.ID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Feature not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(feature)
}

// DeleteFeature handles DELETE /api/features/:id
func (h *FeatureHandler) DeleteFeature(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	if err := h.service.DeleteFeature(id, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Feature not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Feature deleted"})
}

// CreatePlan handles POST /api/features/:id/plans
func (h *FeatureHandler) CreatePlan(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	featureID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequestJSON(c, "Invalid request body")
	}

	plan, err := h.service.CreatePlan(featureID, user.ID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Feature not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// ListPlans handles GET /api/features/:id/plans
func (h *FeatureHandler) ListPlans(c *fiber.Ctx) error {
	featureID, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	plans, err := h.service.ListPlans(featureID)
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(fiber.Map{"data": plans})
}

// GetPlan handles GET /api/plans/:id
func (h *FeatureHandler) GetPlan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	plan, err := h.service.GetPlan(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Plan not found")
		}
		return fiber.ErrInternalServerError
	}
	return c.JSON(plan)
}

// DeletePlan handles DELETE /api/plans/:id
func (h *FeatureHandler) DeletePlan(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return unauthorizedJSON(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequestJSON(c, "Invalid id")
	}

	if err := h.service.DeletePlan(id, user.ID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFoundJSON(c, "Plan not found")
		}
		return badRequestJSON(c, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Plan deleted"})
}

// --- shared helpers ---

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func unauthorizedJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequestJSON(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

func notFoundJSON(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}
