package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/casetrackapp/backend/internal/models"
)

// Business rejections surfaced through the Result envelope.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

const minPasswordLength = 8

// Service orchestrates registration, login and refresh-token rotation on top
// of the user and token stores.
type Service struct {
	users  UserStore
	tokens TokenStore
	issuer *TokenIssuer

	now func() time.Time
}

func NewService(users UserStore, tokens TokenStore, issuer *TokenIssuer) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		issuer: issuer,
		now:    time.Now,
	}
}

// Register creates a new account and opens its first session.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Result, error) {
	if len(password) < minPasswordLength {
		return reject(ErrPasswordTooShort), nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return reject(ErrEmailTaken), nil
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           email,
		Password:        hash,
		Name:            name,
		TokensValidFrom: s.now().UTC().Truncate(time.Second),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials, invalidates every previously issued token for
// the user and opens a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Same rejection as a wrong password: the response must not
			// reveal whether the email exists.
			return reject(ErrInvalidCredentials), nil
		}
		return nil, fmt.Errorf("email lookup failed: %w", err)
	}

	if !CheckPassword(password, user.Password) {
		return reject(ErrInvalidCredentials), nil
	}

	// Truncated to whole seconds to match JWT iat granularity: a token
	// minted in the same second as the login stays valid.
	validFrom := s.now().UTC().Truncate(time.Second)
	if err := s.users.UpdateTokensValidFrom(ctx, user.ID, validFrom); err != nil {
		return nil, fmt.Errorf("failed to update tokens_valid_from: %w", err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke prior refresh tokens: %w", err)
	}

	user, err = s.users.FindByID(ctx, user.ID)
	if err != nil {
		// The row existed a moment ago; treat disappearance as an
		// invariant violation, not a business rejection.
		return nil, fmt.Errorf("user vanished after login update: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return s.openSession(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Sibling sessions are untouched.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return reject(ErrInvalidRefreshToken), nil
		}
		return nil, fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if record.Revoked {
		return reject(ErrRefreshTokenRevoked), nil
	}
	if s.now().After(record.ExpiresAt) {
		return reject(ErrRefreshTokenExpired), nil
	}

	if err := s.tokens.Revoke(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	// The old access token is deliberately not blacklisted here: it expires
	// on its own shortly, and rejecting it early would break requests still
	// in flight during the rotation.
	return s.openSession(ctx, &record.User)
}

// Logout revokes a single refresh token. Unknown tokens are a no-op success.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("refresh token lookup failed: %w", err)
	}
	if record.Revoked {
		return nil
	}
	if err := s.tokens.Revoke(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*Result, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return ok(&Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}), nil
}
