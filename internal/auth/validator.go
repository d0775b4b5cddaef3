package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/casetrackapp/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated covers every request-time rejection: bad signature,
// expired token, unknown user, or a token issued before the user's
// tokens-valid-from cutoff.
var ErrUnauthenticated = errors.New("unauthenticated")

// Validator is the request-time gate for bearer access tokens.
type Validator struct {
	secret []byte
	users  UserStore
}

func NewValidator(secret string, users UserStore) (*Validator, error) {
	if secret == "" {
		return nil, errors.New("token validator: signing secret is required")
	}
	return &Validator{secret: []byte(secret), users: users}, nil
}

// Validate checks signature, expiry and staleness, and resolves the owning
// user. Store failures other than a missing user propagate as-is.
func (v *Validator) Validate(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject claim", ErrUnauthenticated)
	}

	user, err := v.users.FindByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Covers accounts deleted after the token was issued.
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	if claims.IssuedAt == nil || claims.IssuedAt.Time.Before(user.TokensValidFrom) {
		// A later login moved the cutoff forward; this token predates it.
		return nil, fmt.Errorf("%w: token issued before tokens_valid_from", ErrUnauthenticated)
	}

	return user, nil
}
