package services

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CaseService handles test-case and tag business logic.
type CaseService struct {
	db *gorm.DB
}

func NewCaseService(db *gorm.DB) *CaseService {
	return &CaseService{db: db}
}

func (s *CaseService) CreateCase(planID, userID uint, title string, steps []string, expectedResult string) (*models.TestCase, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("case title is required")
	}

	var plan models.TestPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}

	tc := &models.TestCase{
		PlanID:         planID,
		Title:          title,
		Steps:          datatypes.JSON(stepsJSON),
		ExpectedResult: expectedResult,
		Status:         models.CaseStatusDraft,
		CreatedBy:      userID,
	}
	if err := s.db.Create(tc).Error; err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *CaseService) GetCase(id uint) (*models.TestCase, error) {
	var tc models.TestCase
	err := s.db.Preload("Tags").Preload("Comments").First(&tc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tc, nil
}

func (s *CaseService) UpdateStatus(id uint, status string) (*models.TestCase, error) {
	valid := false
	for _, st := range models.CaseStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, errors.New("invalid status: " + status)
	}

	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tc.Status = status
	if err := s.db.Save(&tc).Error; err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *CaseService) UpdateCase(id, userID uint, title string, steps []string, expectedResult string) (*models.TestCase, error) {
	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tc.CreatedBy != userID {
		return nil, errors.New("only the author can update a case")
	}

	if title = strings.TrimSpace(title); title != "" {
		tc.Title = title
	}
	if steps != nil {
		stepsJSON, err := json.Marshal(steps)
		if err != nil {
			return nil, err
		}
		tc.Steps = datatypes.JSON(stepsJSON)
	}
	tc.ExpectedResult = expectedResult

	if err := s.db.Save(&tc).Error; err != nil {
		return nil, err
	}
	return &tc, nil
}

func (s *CaseService) DeleteCase(id, userID uint) error {
	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if tc.CreatedBy != userID {
		return errors.New("only the author can delete a case")
	}
	return s.db.Delete(&tc).Error
}

// TagCase attaches a tag to a case, creating the tag on first use.
func (s *CaseService) TagCase(caseID uint, tagName string) (*models.Tag, error) {
	tagName = strings.ToLower(strings.TrimSpace(tagName))
	if tagName == "" {
		return nil, errors.New("tag name is required")
	}

	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var tag models.Tag
	err := s.db.Where("name = ?", tagName).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: tagName}
		if err := s.db.Create(&tag).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := s.db.Model(&tc).Association("Tags").Append(&tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *CaseService) UntagCase(caseID, tagID uint) error {
	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Model(&tc).Association("Tags").Delete(&models.Tag{ID: tagID})
}

func (s *CaseService) ListTags() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// ListCasesByTag returns cases labeled with the given tag.
func (s *CaseService) ListCasesByTag(tagID uint) ([]models.TestCase, error) {
	var cases []models.TestCase
	err := s.db.Joins("JOIN test_case_tags ON test_case_tags.test_case_id = test_cases.id").
		Where("test_case_tags.tag_id = ?", tagID).
		Find(&cases).Error
	return cases, err
}
