package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/utils"
)

func LoginPage(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "login.html", gin.H{})
	}
}

func Login(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
		password := c.PostForm("password")
		if email == "" || password == "" {
			c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Email and password are required"})
			return
		}

		var user entity.User
		if err := ctx.DB.Where("email = ?", email).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.Logger.Error("Failed to look up user", zap.Error(err))
			}
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid email or password"})
			return
		}

		if !utils.CheckPassword(password, user.PasswordHash) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid email or password"})
			return
		}

		tokenString, err := utils.GenerateJWT(user.ID.String())
		if err != nil {
			ctx.Logger.Error("Failed to generate JWT token", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Login failed, please try again"})
			return
		}

		c.SetCookie("token", tokenString, utils.TokenMaxAge(), "/", "", false, true)
		c.Redirect(http.StatusFound, "/dashboard")
	}
}

func RegisterPage(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "register.html", gin.H{})
	}
}

func Register(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
		password := c.PostForm("password")

		if name == "" || email == "" || password == "" {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "All fields are required"})
			return
		}
		if !strings.Contains(email, "@") {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Please enter a valid email address"})
			return
		}
		if len(password) < 6 {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Password must be at least 6 characters"})
			return
		}

		var existing entity.User
		err := ctx.DB.Where("email = ?", email).First(&existing).Error
		if err == nil {
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": "Email is already registered"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Logger.Error("Failed to look up user", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{"Error": "Registration failed, please try again"})
			return
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			ctx.Logger.Error("Failed to hash password", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{"Error": "Registration failed, please try again"})
			return
		}

		user := entity.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         entity.RoleUser,
		}
		if err := ctx.DB.Create(&user).Error; err != nil {
			ctx.Logger.Error("Failed to create user", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{"Error": "Registration failed, please try again"})
			return
		}

		c.Redirect(http.StatusFound, "/login")
	}
}

func Logout(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("token", "", -1, "/", "", false, true)
		c.Redirect(http.StatusFound, "/")
	}
}

func GetUserInfo(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user entity.User
		if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
			ctx.Logger.Error("Failed to find user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// GoogleLogin starts the OAuth flow. Returns 503 when the deployment has no
// Google credentials configured.
func GoogleLogin(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctx.OAuth2Config.ClientID == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
			return
		}
		url := ctx.OAuth2Config.AuthCodeURL("state", oauth2.AccessTypeOffline)
		c.Redirect(http.StatusTemporaryRedirect, url)
	}
}

func GoogleCallback(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		token, err := ctx.OAuth2Config.Exchange(context.Background(), code)
		if err != nil {
			ctx.Logger.Error("Failed to exchange token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token"})
			return
		}

		client := ctx.OAuth2Config.Client(context.Background(), token)
		resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
		if err != nil {
			ctx.Logger.Error("Failed to get user info", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
			return
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			ctx.Logger.Error("Failed to read user info response body", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read user info response body"})
			return
		}

		user := struct {
			Sub     string `json:"sub"`
			Email   string `json:"email"`
			Name    string `json:"name"`
			Picture string `json:"picture"`
		}{}

		if err := json.Unmarshal(body, &user); err != nil {
			ctx.Logger.Error("Failed to unmarshal user info", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unmarshal user info"})
			return
		}

		var dbUser entity.User
		if err := ctx.DB.Where("email = ?", user.Email).First(&dbUser).Error; err != nil {
			dbUser = entity.User{
				Email:          user.Email,
				Name:           user.Name,
				ProfilePicture: user.Picture,
				Role:           entity.RoleUser,
			}
			if err := ctx.DB.Create(&dbUser).Error; err != nil {
				ctx.Logger.Error("Failed to create user", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		} else if dbUser.ProfilePicture == "" && user.Picture != "" {
			if err := ctx.DB.Model(&dbUser).Update("profile_picture", user.Picture).Error; err != nil {
				ctx.Logger.Error("Failed to update user details", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user details"})
				return
			}
		}

		tokenString, err := utils.GenerateJWT(dbUser.ID.String())
		if err != nil {
			ctx.Logger.Error("Failed to generate JWT token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate JWT token"})
			return
		}

		c.SetCookie("token", tokenString, utils.TokenMaxAge(), "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
	}
}
