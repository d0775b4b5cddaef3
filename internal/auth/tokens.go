package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/casetrackapp/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the access-token payload: subject is the decimal user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer mints signed access tokens and persisted opaque refresh tokens.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	tokens     TokenStore

	now func() time.Time
}

// NewTokenIssuer fails when the signing secret is empty; callers treat that as
// a fatal startup error.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, tokens TokenStore) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token issuer: signing secret is required")
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tokens:     tokens,
		now:        time.Now,
	}, nil
}

// IssueAccessToken signs a short-lived HS256 token carrying the user id and email.
func (i *TokenIssuer) IssueAccessToken(user *models.User) (string, error) {
	now := i.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken generates an unguessable opaque token, persists its record
// and returns the plaintext value for the client.
func (i *TokenIssuer) IssueRefreshToken(ctx context.Context, userID uint) (string, error) {
	record := &models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: i.now().Add(i.refreshTTL),
	}
	if err := i.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return record.Token, nil
}
