package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditEntry struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key" json:"id"`
	Action      string    `gorm:"type:varchar(100);not null" json:"action"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`
	TargetEmail string    `gorm:"type:varchar(100)" json:"target_email"`
	Detail      string    `gorm:"type:text" json:"detail"`
}
