package models

import (
	"time"
)

// Attachment is file metadata for an upload linked to a test case. The bytes
// live on disk under the configured upload directory; StoredName is the
// collision-free on-disk file name.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CaseID     uint      `gorm:"not null;index" json:"case_id"`
	UploaderID uint      `gorm:"not null;index" json:"uploader_id"`
	FileName   string    `gorm:"not null;size:255" json:"file_name"`
	StoredName string    `gorm:"not null;size:100;uniqueIndex" json:"-"`
	Size       int64     `gorm:"not null" json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
