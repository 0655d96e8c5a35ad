package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/track"
)

// favouriteRow is a favourite enriched with dataset columns. Fields are
// strings so tracks missing from the dataset can show "N/A".
type favouriteRow struct {
	ID        uuid.UUID
	Song      string
	Artist    string
	Album     string
	Year      string
	PlayCount string
	Duration  string
	Genre     string
	Known     bool
}

// Favourites renders the user's saved tracks, enriched from the current
// dataset. Filters only apply to favourites found in the dataset; unmatched
// ones always render with placeholders.
func Favourites(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(ctx, c)
		if !ok {
			return
		}

		var favourites []entity.Favourite
		if err := ctx.DB.Where("user_id = ?", user.ID).Order("created_at asc").Find(&favourites).Error; err != nil {
			ctx.Logger.Error("Failed to fetch favourites", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load favourites.")
			return
		}

		var tracks []track.Track
		dataset, err := selectedDataset(ctx, c)
		if err != nil {
			renderErrorPage(c, http.StatusNotFound, "Dataset not found.")
			return
		}
		if dataset != nil {
			if tracks, ok = loadDatasetTracks(ctx, c, dataset); !ok {
				return
			}
		}

		filter := track.ParseFilter(c.Query("min_plays"), c.Query("min_year"), c.Query("max_year"))

		rows := make([]favouriteRow, 0, len(favourites))
		for _, fav := range favourites {
			t, found := track.FindByName(tracks, fav.TrackName)
			if !found {
				rows = append(rows, placeholderRow(fav))
				continue
			}
			if !filter.Matches(t) {
				continue
			}
			rows = append(rows, favouriteRow{
				ID:        fav.ID,
				Song:      fav.TrackName,
				Artist:    orNA(t.Artist),
				Album:     orNA(t.Album),
				Year:      fmt.Sprintf("%d", t.Year),
				PlayCount: fmt.Sprintf("%d", t.PlayCount),
				Duration:  fmt.Sprintf("%.2f", t.DurationMin()),
				Genre:     orNA(t.Genre),
				Known:     true,
			})
		}

		c.HTML(http.StatusOK, "favourites.html", gin.H{
			"User":       user,
			"Favourites": rows,
			"MinPlays":   c.Query("min_plays"),
			"MinYear":    c.Query("min_year"),
			"MaxYear":    c.Query("max_year"),
		})
	}
}

// AddFavourite saves a track for the current user. Adding the same track
// twice is a no-op thanks to the unique (user, track) index.
func AddFavourite(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		song := strings.TrimSpace(c.PostForm("song"))
		if song == "" {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}

		favourite := entity.Favourite{UserID: userID, TrackName: song}
		if err := ctx.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite).Error; err != nil {
			ctx.Logger.Error("Failed to add favourite", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to add favourite.")
			return
		}

		c.Redirect(http.StatusFound, "/favourites")
	}
}

// RemoveFavourite deletes one favourite. The user id in the WHERE clause
// keeps users from removing anyone else's rows. Rows are hard deleted so the
// unique index allows re-favouriting later.
func RemoveFavourite(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(ctx, c)
		if !ok {
			return
		}

		favouriteID, err := uuid.Parse(c.Param("favouriteID"))
		if err != nil {
			renderErrorPage(c, http.StatusBadRequest, "Invalid favourite id.")
			return
		}

		if err := ctx.DB.Unscoped().Where("id = ? AND user_id = ?", favouriteID, userID).Delete(&entity.Favourite{}).Error; err != nil {
			ctx.Logger.Error("Failed to remove favourite", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to remove favourite.")
			return
		}

		c.Redirect(http.StatusFound, "/favourites")
	}
}

func favouriteTrackNames(ctx *appcontext.Context, userID uuid.UUID) (map[string]bool, error) {
	var favourites []entity.Favourite
	if err := ctx.DB.Where("user_id = ?", userID).Find(&favourites).Error; err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(favourites))
	for _, fav := range favourites {
		names[fav.TrackName] = true
	}
	return names, nil
}

func placeholderRow(fav entity.Favourite) favouriteRow {
	return favouriteRow{
		ID:        fav.ID,
		Song:      fav.TrackName,
		Artist:    "N/A",
		Album:     "N/A",
		Year:      "N/A",
		PlayCount: "N/A",
		Duration:  "N/A",
		Genre:     "N/A",
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
