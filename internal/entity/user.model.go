package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email          string      `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Name           string      `json:"name" gorm:"type:varchar(100)"`
	PasswordHash   string      `json:"-" gorm:"type:varchar(255)"`
	ProfilePicture string      `json:"profile_picture" gorm:"type:varchar(255)"`
	Role           string      `json:"role" gorm:"type:varchar(100);default:user"`
	Favourites     []Favourite `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
