package handlers

import (
	"errors"

	"github.com/casetrackapp/backend/internal/auth"
	"github.com/casetrackapp/backend/internal/dto"
	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.service.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	if !result.IsValid {
		status := fiber.StatusBadRequest
		if errors.Is(result.Err, auth.ErrEmailTaken) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(envelope(result))
	}

	return c.Status(fiber.StatusCreated).JSON(envelope(result))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return c.Status(fiber.StatusUnauthorized).JSON(envelope(result))
	}

	return c.JSON(envelope(result))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	result, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	if !result.IsValid {
		return c.Status(fiber.StatusUnauthorized).JSON(envelope(result))
	}

	return c.JSON(envelope(result))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.service.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// Me returns the user resolved by the token-validation middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := middleware.GetUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(dto.UserResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func envelope(result *auth.Result) dto.AuthResponse {
	resp := dto.AuthResponse{
		IsValid: result.IsValid,
		Message: result.Message,
	}
	if result.Data != nil {
		resp.Data = &dto.AuthData{
			AccessToken:  result.Data.AccessToken,
			RefreshToken: result.Data.RefreshToken,
			User: dto.UserResponse{
				ID:    result.Data.User.ID,
				Email: result.Data.User.Email,
				Name:  result.Data.User.Name,
			},
		}
	}
	return resp
}
