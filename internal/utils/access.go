package utils

import (
	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/google/uuid"
)

func UserIsAdmin(ctx *appcontext.Context, userID uuid.UUID) bool {
	var user entity.User

	if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
		return false
	}

	return user.IsAdmin()
}

// AdminCount reports how many administrator accounts exist. The admin
// handlers use it to refuse demoting or deleting the last one.
func AdminCount(ctx *appcontext.Context) (int64, error) {
	var count int64
	err := ctx.DB.Model(&entity.User{}).Where("role = ?", entity.RoleAdmin).Count(&count).Error
	return count, err
}
