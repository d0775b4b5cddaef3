package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a discussion entry on a test case.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CaseID    uint           `gorm:"not null;index" json:"case_id"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Author    User           `gorm:"foreignKey:AuthorID" json:"-"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
