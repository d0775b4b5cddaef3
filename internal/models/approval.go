package models

import (
	"time"
)

// Approval decision values.
const (
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Approval records one reviewer's decision on a test plan. A reviewer has at
// most one row per plan; re-reviewing overwrites the previous decision.
type Approval struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlanID     uint      `gorm:"not null;uniqueIndex:idx_approvals_plan_reviewer" json:"plan_id"`
	ReviewerID uint      `gorm:"not null;uniqueIndex:idx_approvals_plan_reviewer" json:"reviewer_id"`
	Reviewer   User      `gorm:"foreignKey:ReviewerID" json:"-"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
