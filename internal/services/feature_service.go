package services

import (
	"errors"
	"strings"

	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// FeatureService handles feature and test-plan business logic.
type FeatureService struct {
	db *gorm.DB
}

func NewFeatureService(db *gorm.DB) *FeatureService {
	return &FeatureService{db: db}
}

func (s *FeatureService) CreateFeature(ownerID uint, name, description string) (*models.Feature, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("feature name is required")
	}

	feature := &models.Feature{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.db.Create(feature).Error; err != nil {
		return nil, err
	}
	return feature, nil
}

func (s *FeatureService) GetFeature(id uint) (*models.Feature, error) {
	var feature models.Feature
	err := s.db.Preload("Plans").First(&feature, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &feature, nil
}

func (s *FeatureService) ListFeatures(limit, offset int) ([]models.Feature, int64, error) {
	var features []models.Feature
	var total int64

	s.db.Model(&models.Feature{}).Count(&total)

	err := s.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&features).Error

	return features, total, err
}

func (s *FeatureService) UpdateFeature(id, userID uint, name, description string) (*models.Feature, error) {
	var feature models.Feature
	if err := s.db.First(&feature, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if feature.OwnerID != userID {
		return nil, errors.New("only the owner can update a feature")
	}

	if name = strings.TrimSpace(name); name != "" {
		feature.Name = name
	}
	feature.Description = description
	if err := s.db.Save(&feature).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

func (s *FeatureService) DeleteFeature(id, userID uint) error {
	var feature models.Feature
	if err := s.db.First(&feature, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if feature.OwnerID != userID {
		return errors.New("only the owner can delete a feature")
	}
	return s.db.Delete(&feature).Error
}

func (s *FeatureService) CreatePlan(featureID, userID uint, title, description string) (*models.TestPlan, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("plan title is required")
	}

	var feature models.Feature
	if err := s.db.First(&feature, "id = ?", featureID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	plan := &models.TestPlan{
		FeatureID:   featureID,
		Title:       title,
		Description: description,
		CreatedBy:   userID,
	}
	if err := s.db.Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *FeatureService) GetPlan(id uint) (*models.TestPlan, error) {
	var plan models.TestPlan
	err := s.db.Preload("Cases").Preload("Cases.Tags").Preload("Approvals").First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (s *FeatureService) ListPlans(featureID uint) ([]models.TestPlan, error) {
	var plans []models.TestPlan
	err := s.db.Where("feature_id = ?", featureID).Order("created_at DESC").Find(&plans).Error
	return plans, err
}

func (s *FeatureService) DeletePlan(id, userID uint) error {
	var plan models.TestPlan
	if err := s.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if plan.CreatedBy != userID {
		return errors.New("only the author can delete a plan")
	}
	return s.db.Delete(&plan).Error
}
