package middleware

import (
	"errors"

	"github.com/casetrackapp/backend/internal/auth"
	"github.com/casetrackapp/backend/internal/dto"
	"github.com/casetrackapp/backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "current_user"

// CurrentUser runs the full access-token validation (signature, expiry, user
// existence, tokens_valid_from staleness) and attaches the resolved user to
// the request. Must run after JWTProtected, which put the parsed token in
// locals.
func CurrentUser(validator *auth.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c)
		}

		user, err := validator.Validate(c.UserContext(), token.Raw)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthenticated) {
				return unauthorized(c)
			}
			// Store fault, not a rejection.
			return fiber.ErrInternalServerError
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// GetUser returns the request's authenticated user, set by CurrentUser.
func GetUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(currentUserKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no authenticated user in context")
	}
	return user, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized",
	})
}
