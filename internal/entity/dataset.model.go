package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dataset struct {
	gorm.Model
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Name         string     `gorm:"type:varchar(100);uniqueIndex" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	FilePath     string     `gorm:"type:varchar(255);not null" json:"file_path"`
	TrackCount   int        `gorm:"type:integer" json:"track_count"`
	CategoryID   *uuid.UUID `gorm:"type:uuid" json:"category_id"`
	Category     *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	UploadedByID *uuid.UUID `gorm:"type:uuid" json:"uploaded_by_id"`
	Comments     []Comment  `gorm:"foreignKey:DatasetID" json:"-"`
}
