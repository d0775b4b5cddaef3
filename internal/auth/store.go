package auth

import (
	"context"
	"errors"
	"time"

	"github.com/casetrackapp/backend/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist. Any other
// error from a store is an infrastructure fault and propagates unmodified.
var ErrNotFound = errors.New("record not found")

// UserStore is the user-record persistence contract the auth core consumes.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateTokensValidFrom(ctx context.Context, id uint, t time.Time) error
}

// TokenStore is the refresh-token persistence contract. FindByToken loads the
// owning user along with the record.
type TokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeAllForUser(ctx context.Context, userID uint) error
}
