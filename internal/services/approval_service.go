package services

import (
	"errors"

	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApprovalService handles review decisions on test plans.
type ApprovalService struct {
	db *gorm.DB
}

func NewApprovalService(db *gorm.DB) *ApprovalService {
	return &ApprovalService{db: db}
}

// Review upserts the reviewer's decision for a plan. Plan authors cannot
// review their own plans.
func (s *ApprovalService) Review(planID, reviewerID uint, status, comment string) (*models.Approval, error) {
	if status != models.ApprovalApproved && status != models.ApprovalRejected {
		return nil, errors.New("status must be approved or rejected")
	}

	var plan models.TestPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if plan.CreatedBy == reviewerID {
		return nil, errors.New("authors cannot review their own plan")
	}

	approval := &models.Approval{
		PlanID:     planID,
		ReviewerID: reviewerID,
		Status:     status,
		Comment:    comment,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "reviewer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "comment", "updated_at"}),
	}).Create(approval).Error
	if err != nil {
		return nil, err
	}
	return approval, nil
}

func (s *ApprovalService) ListApprovals(planID uint) ([]models.Approval, error) {
	var approvals []models.Approval
	err := s.db.Where("plan_id = ?", planID).Order("created_at ASC").Find(&approvals).Error
	return approvals, err
}

// IsApproved reports whether the plan has at least one approval and no
// rejections.
func (s *ApprovalService) IsApproved(planID uint) (bool, error) {
	var approved, rejected int64
	if err := s.db.Model(&models.Approval{}).
		Where("plan_id = ? AND status = ?", planID, models.ApprovalApproved).
		Count(&approved).Error; err != nil {
		return false, err
	}
	if err := s.db.Model(&models.Approval{}).
		Where("plan_id = ? AND status = ?", planID, models.ApprovalRejected).
		Count(&rejected).Error; err != nil {
		return false, err
	}
	return approved > 0 && rejected == 0, nil
}
