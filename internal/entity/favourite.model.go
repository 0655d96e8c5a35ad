package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favourite struct {
	gorm.Model
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_favourite_user_track"`
	TrackName string    `json:"track_name" gorm:"type:varchar(255);not null;uniqueIndex:idx_favourite_user_track"`
}
