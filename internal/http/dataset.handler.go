package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/track"
)

func GetDatasets(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		var datasets []entity.Dataset
		if err := ctx.DB.Preload("Category").Order("created_at asc").Find(&datasets).Error; err != nil {
			ctx.Logger.Error("Failed to fetch datasets", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch datasets"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"datasets": datasets})
	}
}

// selectedDataset resolves which dataset a page should show. An explicit
// ?dataset=<id> wins; otherwise the oldest dataset is the default. Returns
// (nil, nil) when no datasets exist and none was requested, so pages can
// render their empty state.
func selectedDataset(ctx *appcontext.Context, c *gin.Context) (*entity.Dataset, error) {
	if raw := c.Query("dataset"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, gorm.ErrRecordNotFound
		}
		var dataset entity.Dataset
		if err := ctx.DB.First(&dataset, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &dataset, nil
	}

	var dataset entity.Dataset
	err := ctx.DB.Order("created_at asc").First(&dataset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// loadDatasetTracks reads a dataset's CSV from disk, rendering an error page
// and returning false when the file is missing or unreadable.
func loadDatasetTracks(ctx *appcontext.Context, c *gin.Context, dataset *entity.Dataset) ([]track.Track, bool) {
	tracks, err := track.Load(dataset.FilePath)
	if err != nil {
		ctx.Logger.Error("Failed to load dataset file", zap.Error(err), zap.String("path", dataset.FilePath))
		renderErrorPage(c, http.StatusInternalServerError, "The dataset file could not be read.")
		return nil, false
	}
	return tracks, true
}

func listDatasets(ctx *appcontext.Context) ([]entity.Dataset, error) {
	var datasets []entity.Dataset
	err := ctx.DB.Order("created_at asc").Find(&datasets).Error
	return datasets, err
}
