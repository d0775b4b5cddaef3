package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Test case execution statuses.
const (
	CaseStatusDraft   = "draft"
	CaseStatusReady   = "ready"
	CaseStatusPassed  = "passed"
	CaseStatusFailed  = "failed"
	CaseStatusBlocked = "blocked"
)

var CaseStatuses = []string{CaseStatusDraft, CaseStatusReady, CaseStatusPassed, CaseStatusFailed, CaseStatusBlocked}

// TestCase is a single executable check: ordered steps plus an expected result.
type TestCase struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	PlanID         uint           `gorm:"not null;index" json:"plan_id"`
	Title          string         `gorm:"not null;size:255" json:"title"`
	Steps          datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"steps"`
	ExpectedResult string         `gorm:"type:text" json:"expected_result"`
	Status         string         `gorm:"size:20;default:'draft';index" json:"status"`
	CreatedBy      uint           `gorm:"not null;index" json:"created_by"`
	Tags           []Tag          `gorm:"many2many:test_case_tags" json:"tags,omitempty"`
	Comments       []Comment      `gorm:"foreignKey:CaseID" json:"comments,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tag labels test cases across plans.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
