package services

import (
	"errors"
	"strings"

	"github.com/casetrackapp/backend/internal/models"
	"gorm.io/gorm"
)

// CommentService handles test-case discussion threads.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) CreateComment(caseID, authorID uint, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("comment body is required")
	}

	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		CaseID:   caseID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(caseID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

func (s *CommentService) DeleteComment(id, userID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		return errors.New("only the author can delete a comment")
	}
	return s.db.Delete(&comment).Error
}
