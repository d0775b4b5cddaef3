package models

import (
	"time"

	"gorm.io/gorm"
)

// Feature groups test plans around one area of the product under test.
type Feature struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerID     uint           `gorm:"not null;index" json:"owner_id"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"-"`
	Plans       []TestPlan     `gorm:"foreignKey:FeatureID" json:"plans,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TestPlan is an ordered collection of test cases within a feature.
type TestPlan struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FeatureID   uint           `gorm:"not null;index" json:"feature_id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedBy   uint           `gorm:"not null;index" json:"created_by"`
	Cases       []TestCase     `gorm:"foreignKey:PlanID" json:"cases,omitempty"`
	Approvals   []Approval     `gorm:"foreignKey:PlanID" json:"approvals,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
