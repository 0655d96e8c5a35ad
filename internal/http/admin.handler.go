package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/services"
	"github.com/anglvix/spotify-insight/internal/track"
	"github.com/anglvix/spotify-insight/internal/utils"
)

// AdminPanel renders the management page: users, categories, datasets and
// the recent audit trail.
func AdminPanel(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(ctx, c)
		if !ok {
			return
		}

		var users []entity.User
		if err := ctx.DB.Order("created_at asc").Find(&users).Error; err != nil {
			ctx.Logger.Error("Failed to fetch users", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load users.")
			return
		}

		var categories []entity.Category
		if err := ctx.DB.Preload("Datasets").Order("created_at asc").Find(&categories).Error; err != nil {
			ctx.Logger.Error("Failed to fetch categories", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load categories.")
			return
		}

		var datasets []entity.Dataset
		if err := ctx.DB.Preload("Category").Order("created_at asc").Find(&datasets).Error; err != nil {
			ctx.Logger.Error("Failed to fetch datasets", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load datasets.")
			return
		}

		var auditEntries []entity.AuditEntry
		if err := ctx.DB.Order("created_at desc").Limit(20).Find(&auditEntries).Error; err != nil {
			ctx.Logger.Error("Failed to fetch audit entries", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load audit trail.")
			return
		}

		c.HTML(http.StatusOK, "admin.html", gin.H{
			"User":       user,
			"Users":      users,
			"Categories": categories,
			"Datasets":   datasets,
			"Audit":      auditEntries,
		})
	}
}

func AdminCreateUser(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(ctx, c)
		if !ok {
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		email := strings.TrimSpace(strings.ToLower(c.PostForm("email")))
		password := c.PostForm("password")
		role := c.PostForm("role")
		if role != entity.RoleAdmin {
			role = entity.RoleUser
		}

		if name == "" || email == "" || password == "" {
			renderErrorPage(c, http.StatusBadRequest, "Name, email and password are required.")
			return
		}

		var existing entity.User
		err := ctx.DB.Where("email = ?", email).First(&existing).Error
		if err == nil {
			renderErrorPage(c, http.StatusBadRequest, "Email is already registered.")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Logger.Error("Failed to look up user", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to create user.")
			return
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			ctx.Logger.Error("Failed to hash password", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to create user.")
			return
		}

		user := entity.User{Name: name, Email: email, PasswordHash: hash, Role: role}
		if err := ctx.DB.Create(&user).Error; err != nil {
			ctx.Logger.Error("Failed to create user", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to create user.")
			return
		}

		notifyUser(ctx, user.ID, "An administrator created your account.")
		if err := services.SendInvitationEmail(email, actor.Name); err != nil {
			ctx.Logger.Warn("Failed to send invitation email", zap.Error(err))
		}
		utils.RecordAudit(ctx, "user.create", actor.ID, email, "role "+role)

		c.Redirect(http.StatusFound, "/admin")
	}
}

func AdminPromoteUser(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		target, ok := findUserByParam(ctx, c)
		if !ok {
			return
		}
		if target.IsAdmin() {
			c.Redirect(http.StatusFound, "/admin")
			return
		}

		if err := ctx.DB.Model(target).Update("role", entity.RoleAdmin).Error; err != nil {
			ctx.Logger.Error("Failed to promote user", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to promote user.")
			return
		}

		notifyUser(ctx, target.ID, "You have been promoted to administrator.")
		utils.RecordAudit(ctx, "user.promote", actorID, target.Email, "")

		c.Redirect(http.StatusFound, "/admin")
	}
}

func AdminDemoteUser(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		target, ok := findUserByParam(ctx, c)
		if !ok {
			return
		}
		if !target.IsAdmin() {
			c.Redirect(http.StatusFound, "/admin")
			return
		}

		admins, err := utils.AdminCount(ctx)
		if err != nil {
			ctx.Logger.Error("Failed to count admins", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to demote user.")
			return
		}
		if admins <= 1 {
			renderErrorPage(c, http.StatusBadRequest, "Cannot demote the last administrator.")
			return
		}

		if err := ctx.DB.Model(target).Update("role", entity.RoleUser).Error; err != nil {
			ctx.Logger.Error("Failed to demote user", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to demote user.")
			return
		}

		notifyUser(ctx, target.ID, "Your administrator access has been removed.")
		utils.RecordAudit(ctx, "user.demote", actorID, target.Email, "")

		c.Redirect(http.StatusFound, "/admin")
	}
}

// AdminDeleteUser removes an account along with its favourites, comments
// and notifications. Users are hard deleted so the email can be registered
// again later.
func AdminDeleteUser(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		target, ok := findUserByParam(ctx, c)
		if !ok {
			return
		}

		if target.ID == actorID {
			renderErrorPage(c, http.StatusBadRequest, "You cannot delete your own account.")
			return
		}
		if target.IsAdmin() {
			admins, err := utils.AdminCount(ctx)
			if err != nil {
				ctx.Logger.Error("Failed to count admins", zap.Error(err))
				renderErrorPage(c, http.StatusInternalServerError, "Failed to delete user.")
				return
			}
			if admins <= 1 {
				renderErrorPage(c, http.StatusBadRequest, "Cannot delete the last administrator.")
				return
			}
		}

		if err := ctx.DB.Unscoped().Where("user_id = ?", target.ID).Delete(&entity.Favourite{}).Error; err != nil {
			ctx.Logger.Error("Failed to delete user favourites", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete user.")
			return
		}
		if err := ctx.DB.Unscoped().Where("author_id = ?", target.ID).Delete(&entity.Comment{}).Error; err != nil {
			ctx.Logger.Error("Failed to delete user comments", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete user.")
			return
		}
		if err := ctx.DB.Unscoped().Where("recipient_id = ?", target.ID).Delete(&entity.Notification{}).Error; err != nil {
			ctx.Logger.Error("Failed to delete user notifications", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete user.")
			return
		}

		if err := ctx.DB.Unscoped().Delete(target).Error; err != nil {
			ctx.Logger.Error("Failed to delete user", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete user.")
			return
		}

		utils.RecordAudit(ctx, "user.delete", actorID, target.Email, "")

		c.Redirect(http.StatusFound, "/admin")
	}
}

func AdminCreateCategory(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		description := strings.TrimSpace(c.PostForm("description"))
		if name == "" {
			renderErrorPage(c, http.StatusBadRequest, "Category name is required.")
			return
		}

		var existing entity.Category
		err := ctx.DB.Where("name = ?", name).First(&existing).Error
		if err == nil {
			renderErrorPage(c, http.StatusBadRequest, "Category already exists.")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Logger.Error("Failed to look up category", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to create category.")
			return
		}

		category := entity.Category{Name: name, Description: description}
		if err := ctx.DB.Create(&category).Error; err != nil {
			ctx.Logger.Error("Failed to create category", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to create category.")
			return
		}

		utils.RecordAudit(ctx, "category.create", actorID, "", name)

		c.Redirect(http.StatusFound, "/admin")
	}
}

func AdminDeleteCategory(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		categoryID, err := uuid.Parse(c.Param("categoryID"))
		if err != nil {
			renderErrorPage(c, http.StatusBadRequest, "Invalid category id.")
			return
		}

		var category entity.Category
		if err := ctx.DB.First(&category, "id = ?", categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				renderErrorPage(c, http.StatusNotFound, "Category not found.")
				return
			}
			ctx.Logger.Error("Failed to find category", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete category.")
			return
		}

		var datasetCount int64
		if err := ctx.DB.Model(&entity.Dataset{}).Where("category_id = ?", category.ID).Count(&datasetCount).Error; err != nil {
			ctx.Logger.Error("Failed to count datasets", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete category.")
			return
		}
		if datasetCount > 0 {
			renderErrorPage(c, http.StatusBadRequest, "Category still has datasets assigned.")
			return
		}

		if err := ctx.DB.Unscoped().Delete(&category).Error; err != nil {
			ctx.Logger.Error("Failed to delete category", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete category.")
			return
		}

		utils.RecordAudit(ctx, "category.delete", actorID, "", category.Name)

		c.Redirect(http.StatusFound, "/admin")
	}
}

// AdminUploadDataset stores an uploaded listening history CSV under the
// datasets directory, keyed by the new dataset's id. The file is parsed
// before the record is created so broken uploads never become datasets.
func AdminUploadDataset(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		description := strings.TrimSpace(c.PostForm("description"))
		if name == "" {
			renderErrorPage(c, http.StatusBadRequest, "Dataset name is required.")
			return
		}

		var existing entity.Dataset
		err := ctx.DB.Where("name = ?", name).First(&existing).Error
		if err == nil {
			renderErrorPage(c, http.StatusBadRequest, "A dataset with that name already exists.")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Logger.Error("Failed to look up dataset", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}

		var categoryID *uuid.UUID
		if raw := c.PostForm("category"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				renderErrorPage(c, http.StatusBadRequest, "Invalid category id.")
				return
			}
			var category entity.Category
			if err := ctx.DB.First(&category, "id = ?", id).Error; err != nil {
				renderErrorPage(c, http.StatusBadRequest, "Category not found.")
				return
			}
			categoryID = &category.ID
		}

		file, err := c.FormFile("file")
		if err != nil {
			ctx.Logger.Error("Failed to get file from request", zap.Error(err))
			renderErrorPage(c, http.StatusBadRequest, "A CSV file is required.")
			return
		}
		if !isCSVFile(file) {
			renderErrorPage(c, http.StatusBadRequest, "Invalid file type, only CSV files are allowed.")
			return
		}

		src, err := file.Open()
		if err != nil {
			ctx.Logger.Error("Failed to open file", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}
		defer src.Close()

		datasetID := uuid.New()
		path := filepath.Join(ctx.DatasetsDir, datasetID.String()+".csv")

		dst, err := os.Create(path)
		if err != nil {
			ctx.Logger.Error("Failed to create dataset file", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			os.Remove(path)
			ctx.Logger.Error("Failed to write dataset file", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}
		if err := dst.Close(); err != nil {
			os.Remove(path)
			ctx.Logger.Error("Failed to close dataset file", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}

		tracks, err := track.Load(path)
		if err != nil {
			os.Remove(path)
			ctx.Logger.Error("Uploaded file is not a valid dataset", zap.Error(err))
			renderErrorPage(c, http.StatusBadRequest, "The file is not a valid listening history CSV.")
			return
		}

		dataset := entity.Dataset{
			ID:           datasetID,
			Name:         name,
			Description:  description,
			FilePath:     path,
			TrackCount:   len(tracks),
			CategoryID:   categoryID,
			UploadedByID: &actorID,
		}
		if err := ctx.DB.Create(&dataset).Error; err != nil {
			os.Remove(path)
			ctx.Logger.Error("Failed to create dataset", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to upload dataset.")
			return
		}

		if err := utils.IndexDatasetTracks(ctx, dataset.ID, tracks); err != nil {
			ctx.Logger.Warn("Failed to index dataset", zap.Error(err))
		}
		utils.RecordAudit(ctx, "dataset.upload", actorID, "", name)

		c.Redirect(http.StatusFound, "/admin")
	}
}

func AdminDeleteDataset(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		datasetID, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			renderErrorPage(c, http.StatusBadRequest, "Invalid dataset id.")
			return
		}

		var dataset entity.Dataset
		if err := ctx.DB.First(&dataset, "id = ?", datasetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				renderErrorPage(c, http.StatusNotFound, "Dataset not found.")
				return
			}
			ctx.Logger.Error("Failed to find dataset", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete dataset.")
			return
		}

		if err := utils.RemoveDatasetTracks(ctx, dataset.ID, dataset.TrackCount); err != nil {
			ctx.Logger.Warn("Failed to remove dataset from search index", zap.Error(err))
		}

		if err := ctx.DB.Unscoped().Where("dataset_id = ?", dataset.ID).Delete(&entity.Comment{}).Error; err != nil {
			ctx.Logger.Error("Failed to delete dataset comments", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete dataset.")
			return
		}

		if err := os.Remove(dataset.FilePath); err != nil && !os.IsNotExist(err) {
			ctx.Logger.Warn("Failed to remove dataset file", zap.Error(err), zap.String("path", dataset.FilePath))
		}

		if err := ctx.DB.Unscoped().Delete(&dataset).Error; err != nil {
			ctx.Logger.Error("Failed to delete dataset", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to delete dataset.")
			return
		}

		utils.RecordAudit(ctx, "dataset.delete", actorID, "", dataset.Name)

		c.Redirect(http.StatusFound, "/admin")
	}
}

// findUserByParam loads the user addressed by the :userID route parameter,
// rendering the error response itself on failure.
func findUserByParam(ctx *appcontext.Context, c *gin.Context) (*entity.User, bool) {
	userID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		renderErrorPage(c, http.StatusBadRequest, "Invalid user id.")
		return nil, false
	}

	var user entity.User
	if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			renderErrorPage(c, http.StatusNotFound, "User not found.")
			return nil, false
		}
		ctx.Logger.Error("Failed to find user", zap.Error(err))
		renderErrorPage(c, http.StatusInternalServerError, "Failed to load user.")
		return nil, false
	}

	return &user, true
}

func isCSVFile(file *multipart.FileHeader) bool {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" {
		return false
	}

	mimeType := file.Header.Get("Content-Type")
	return mimeType == "text/csv" || mimeType == "application/vnd.ms-excel" || mimeType == "application/octet-stream" || mimeType == ""
}
