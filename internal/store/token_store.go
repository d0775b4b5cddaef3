package store

import (
	"context"

	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/gorm"
)

// TokenStore is the GORM-backed implementation of auth.TokenStore. Revocation
// is a flag update; records are never hard-deleted here.
type TokenStore struct {
	db *gorm.DB
}

func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Create(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *TokenStore) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

func (s *TokenStore) Revoke(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = false", userID).
		Update("revoked", true).Error
}
