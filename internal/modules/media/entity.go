package media

import "time"

// Upload is a review attachment stored on local disk.
type Upload struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	UserID       int64     `gorm:"column:user_id;index" json:"userId"`
	OriginalName string    `gorm:"column:original_name" json:"originalName"`
	FilePath     string    `gorm:"column:file_path" json:"-"`
	FileURL      string    `gorm:"column:file_url" json:"url"`
	MimeType     string    `gorm:"column:mime_type" json:"mimeType"`
	Size         int64     `gorm:"column:size" json:"size"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Upload) TableName() string { return "media_uploads" }
