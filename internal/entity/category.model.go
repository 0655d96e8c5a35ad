package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Datasets    []Dataset `json:"datasets,omitempty" gorm:"foreignKey:CategoryID"`
}
