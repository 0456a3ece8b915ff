package models

import "time"

// Attachment represents the file_uploads table for request documents.
type Attachment struct {
	FileID       int        `gorm:"primaryKey;column:file_id" json:"file_id"`
	RequestID    *int       `gorm:"column:request_id;index" json:"request_id,omitempty"`
	OriginalName string     `gorm:"column:original_name" json:"original_name"`
	StoredPath   string     `gorm:"column:stored_path" json:"stored_path"`
	FileSize     int64      `gorm:"column:file_size" json:"file_size"`
	MimeType     string     `gorm:"column:mime_type" json:"mime_type"`
	UploadedBy   int        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt   time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// TableName overrides
func (Attachment) TableName() string {
	return "file_uploads"
}

// IsValidDocumentType limits uploads to the formats the review stages accept.
func (a *Attachment) IsValidDocumentType() bool {
	validTypes := []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"image/jpeg",
		"image/png",
	}
	for _, validType := range validTypes {
		if a.MimeType == validType {
			return true
		}
	}
	return false
}

func (a *Attachment) GetFileSizeInMB() float64 {
	return float64(a.FileSize) / (1024 * 1024)
}
