package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/utils"
)

func Landing(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		loggedIn := false
		if token, err := c.Cookie("token"); err == nil && token != "" {
			if _, err := utils.ValidateJWT(token); err == nil {
				loggedIn = true
			}
		}
		c.HTML(http.StatusOK, "landing.html", gin.H{"LoggedIn": loggedIn})
	}
}

// NotFound serves unmatched routes: JSON under /api, a rendered page
// everywhere else.
func NotFound(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.HTML(http.StatusNotFound, "notfound.html", gin.H{})
	}
}

func renderErrorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Status": status, "Message": message})
}
