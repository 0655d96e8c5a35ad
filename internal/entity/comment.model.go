package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	gorm.Model
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null;index"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	DatasetID uuid.UUID `json:"dataset_id" gorm:"type:uuid;not null;index"`
}
