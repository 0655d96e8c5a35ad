package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/utils"
)

// AdminOnlyMiddleware rejects requests from non-administrator accounts.
// It expects an auth middleware to have stored the claims already.
func AdminOnlyMiddleware(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !utils.UserIsAdmin(ctx, userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}
