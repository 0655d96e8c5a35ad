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
	"github.com/anglvix/spotify-insight/internal/utils"
)

// GetDatasetStatistics returns the aggregates for one dataset as JSON. The
// same filter parameters as the dashboard apply, so clients can request
// stats for a narrowed view.
func GetDatasetStatistics(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		datasetID, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
			return
		}

		var dataset entity.Dataset
		if err := ctx.DB.First(&dataset, "id = ?", datasetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
				return
			}
			ctx.Logger.Error("Failed to find dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find dataset"})
			return
		}

		tracks, err := track.Load(dataset.FilePath)
		if err != nil {
			ctx.Logger.Error("Failed to load dataset file", zap.Error(err), zap.String("path", dataset.FilePath))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dataset file"})
			return
		}

		filter := track.ParseFilter(c.Query("min_plays"), c.Query("min_year"), c.Query("max_year"))
		filtered := filter.Apply(tracks)

		summary := track.Summarize(filtered)
		topN := track.ClampTopN(c.DefaultQuery("top_artists", ""))

		topArtistsResponse := struct {
			Artists []string `json:"artists"`
			Plays   []int    `json:"plays"`
		}{}
		for _, ap := range track.TopArtists(filtered, topN) {
			topArtistsResponse.Artists = append(topArtistsResponse.Artists, ap.Artist)
			topArtistsResponse.Plays = append(topArtistsResponse.Plays, ap.Plays)
		}

		topGenresResponse := struct {
			Genres []string `json:"genres"`
			Plays  []int    `json:"plays"`
		}{}
		for _, gp := range summary.TopGenres {
			topGenresResponse.Genres = append(topGenresResponse.Genres, gp.Genre)
			topGenresResponse.Plays = append(topGenresResponse.Plays, gp.Plays)
		}

		var commentCount int64
		if err := ctx.DB.Model(&entity.Comment{}).Where("dataset_id = ?", dataset.ID).Count(&commentCount).Error; err != nil {
			ctx.Logger.Error("Failed to count comments", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count comments"})
			return
		}

		var favouriteCount int64
		if err := ctx.DB.Model(&entity.Favourite{}).Where("user_id = ?", userID).Count(&favouriteCount).Error; err != nil {
			ctx.Logger.Error("Failed to count favourites", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count favourites"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"dataset_id":        dataset.ID,
			"dataset_name":      dataset.Name,
			"total_streams":     summary.TotalStreams,
			"listening_minutes": summary.ListeningMinutes,
			"track_count":       summary.TrackCount,
			"artist_count":      summary.ArtistCount,
			"album_count":       summary.AlbumCount,
			"top_artists":       topArtistsResponse,
			"top_genres":        topGenresResponse,
			"comment_count":     commentCount,
			"favourite_count":   favouriteCount,
		})
	}
}
