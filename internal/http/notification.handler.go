package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/utils"
)

func GetNotifications(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var notifications []entity.Notification
		if err := ctx.DB.Where("recipient_id = ?", userID).Order("created_at desc").Find(&notifications).Error; err != nil {
			ctx.Logger.Error("Failed to fetch notifications", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		unread := 0
		for _, n := range notifications {
			if !n.Read {
				unread++
			}
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread_count": unread})
	}
}

func MarkNotificationRead(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		notificationID, err := uuid.Parse(c.Param("notificationID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
			return
		}

		// The recipient check keeps users from touching each other's rows.
		result := ctx.DB.Model(&entity.Notification{}).
			Where("id = ? AND recipient_id = ?", notificationID, userID).
			Update("read", true)
		if result.Error != nil {
			ctx.Logger.Error("Failed to mark notification read", zap.Error(result.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

func MarkAllNotificationsRead(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := ctx.DB.Model(&entity.Notification{}).
			Where("recipient_id = ? AND read = ?", userID, false).
			Update("read", true).Error; err != nil {
			ctx.Logger.Error("Failed to mark notifications read", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
	}
}

// notifyUser stores an in-app notification, logging and continuing on
// failure so the triggering action still succeeds.
func notifyUser(ctx *appcontext.Context, recipientID uuid.UUID, message string) {
	notification := entity.Notification{
		RecipientID: recipientID,
		Message:     message,
	}
	if err := ctx.DB.Create(&notification).Error; err != nil {
		ctx.Logger.Warn("Failed to create notification", zap.Error(err))
	}
}
