package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
)

// Chat renders the discussion page for the selected dataset.
func Chat(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(ctx, c)
		if !ok {
			return
		}

		datasets, err := listDatasets(ctx)
		if err != nil {
			ctx.Logger.Error("Failed to fetch datasets", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load datasets.")
			return
		}

		dataset, err := selectedDataset(ctx, c)
		if err != nil {
			renderErrorPage(c, http.StatusNotFound, "Dataset not found.")
			return
		}
		if dataset == nil {
			c.HTML(http.StatusOK, "chat.html", gin.H{"User": user, "Datasets": datasets, "NoData": true})
			return
		}

		var comments []entity.Comment
		if err := ctx.DB.Preload("Author").Where("dataset_id = ?", dataset.ID).Order("created_at asc").Find(&comments).Error; err != nil {
			ctx.Logger.Error("Failed to fetch comments", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load messages.")
			return
		}

		c.HTML(http.StatusOK, "chat.html", gin.H{
			"User":     user,
			"Datasets": datasets,
			"Selected": dataset,
			"Comments": comments,
		})
	}
}

// SendComment appends a message to a dataset's discussion. Empty messages
// are dropped with a redirect, matching the form behavior elsewhere.
func SendComment(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		message := strings.TrimSpace(c.PostForm("message"))
		if message == "" {
			c.Redirect(http.StatusFound, "/chat")
			return
		}

		datasetID, err := uuid.Parse(c.PostForm("dataset"))
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
			renderErrorPage(c, http.StatusInternalServerError, "Failed to send message.")
			return
		}

		comment := entity.Comment{
			Body:      message,
			AuthorID:  userID,
			DatasetID: dataset.ID,
		}
		if err := ctx.DB.Create(&comment).Error; err != nil {
			ctx.Logger.Error("Failed to create comment", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to send message.")
			return
		}

		c.Redirect(http.StatusFound, "/chat?dataset="+dataset.ID.String())
	}
}
