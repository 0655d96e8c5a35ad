package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anglvix/spotify-insight/internal/utils"
)

// JWTAuthMiddleware guards the JSON API. Requests without a valid token get
// a 401 response.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// PageAuthMiddleware guards server rendered pages. Anonymous visitors are
// redirected to the login form instead of receiving a JSON error.
func PageAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// claimsFromRequest accepts the session cookie or a bearer token, so the
// same endpoints work for browsers and API clients.
func claimsFromRequest(c *gin.Context) (*utils.Claims, error) {
	token, err := c.Cookie("token")
	if err != nil || token == "" {
		header := c.GetHeader("Authorization")
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			token = after
		}
	}
	if token == "" {
		return nil, errors.New("no token provided")
	}
	return utils.ValidateJWT(token)
}
