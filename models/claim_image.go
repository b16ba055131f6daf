package models

import (
	"time"
)

// ClaimImage records one uploaded damage photo for a claim
type ClaimImage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ClaimID      string    `gorm:"size:12;not null;index" json:"claim_id"`
	Claim        Claim     `gorm:"foreignKey:ClaimID" json:"-"`
	S3URL        string    `gorm:"not null" json:"s3_url"`
	S3FolderPath string    `gorm:"not null" json:"s3_folder_path"`
	FileName     string    `gorm:"not null" json:"file_name"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

// TableName specifies the table name for the ClaimImage model
func (ClaimImage) TableName() string {
	return "claim_images"
}

// StorageKey returns the object storage key for this image
func (ci *ClaimImage) StorageKey() string {
	return ci.S3FolderPath + "/" + ci.FileName
}
