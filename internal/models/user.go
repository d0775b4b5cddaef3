package models

import (
	"time"
)

// User is an account that can own features, author test cases and review plans.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"size:255" json:"name"`

	// TokensValidFrom is advanced (floored to whole seconds) on every
	// successful login. Access tokens issued before it are rejected at
	// validation time, which makes login a "log out everywhere" event
	// without keeping per-token state.
	TokensValidFrom time.Time `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
