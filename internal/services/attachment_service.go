package services

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/casetrackapp/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentService stores upload metadata in the DB and bytes on disk.
type AttachmentService struct {
	db        *gorm.DB
	uploadDir string
}

func NewAttachmentService(db *gorm.DB, uploadDir string) *AttachmentService {
	return &AttachmentService{db: db, uploadDir: uploadDir}
}

// Register records an upload for a case and returns the on-disk path the
// caller should save the bytes to.
func (s *AttachmentService) Register(caseID, uploaderID uint, fileName string, size int64) (*models.Attachment, string, error) {
	var tc models.TestCase
	if err := s.db.First(&tc, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, "", err
	}

	stored := uuid.NewString() + filepath.Ext(fileName)
	attachment := &models.Attachment{
		CaseID:     caseID,
		UploaderID: uploaderID,
		FileName:   filepath.Base(fileName),
		StoredName: stored,
		Size:       size,
	}
	if err := s.db.Create(attachment).Error; err != nil {
		return nil, "", err
	}
	return attachment, filepath.Join(s.uploadDir, stored), nil
}

func (s *AttachmentService) Get(id uint) (*models.Attachment, string, error) {
	var attachment models.Attachment
	if err := s.db.First(&attachment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return &attachment, filepath.Join(s.uploadDir, attachment.StoredName), nil
}

func (s *AttachmentService) List(caseID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&attachments).Error
	return attachments, err
}

func (s *AttachmentService) Delete(id, userID uint) error {
	var attachment models.Attachment
	if err := s.db.First(&attachment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if attachment.UploaderID != userID {
		return errors.New("only the uploader can delete an attachment")
	}
	if err := s.db.Delete(&attachment).Error; err != nil {
		return err
	}
	// Best effort; the metadata row is the source of truth.
	_ = os.Remove(filepath.Join(s.uploadDir, attachment.StoredName))
	return nil
}
