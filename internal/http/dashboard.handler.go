package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/chart"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/track"
	"github.com/anglvix/spotify-insight/internal/utils"
)

type dashboardRow struct {
	track.Track
	Favourite bool
}

// Dashboard renders the main page: the track table, the stat cards and the
// charts. Table and chart filters are independent, so narrowing the table
// does not change the charts and vice versa.
func Dashboard(ctx *appcontext.Context) gin.HandlerFunc {
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
			c.HTML(http.StatusOK, "dashboard.html", gin.H{"User": user, "Datasets": datasets, "NoData": true})
			return
		}

		tracks, ok := loadDatasetTracks(ctx, c, dataset)
		if !ok {
			return
		}

		tableFilter := track.ParseFilter(
			c.Query("table_min_plays"),
			c.Query("table_min_year"),
			c.Query("table_max_year"),
		)
		graphFilter := track.ParseFilter(
			c.Query("graph_min_plays"),
			c.Query("graph_min_year"),
			c.Query("graph_max_year"),
		)
		topN := track.ClampTopN(c.DefaultQuery("graph_top_artists", ""))

		tableTracks := tableFilter.Apply(tracks)
		graphTracks := graphFilter.Apply(tracks)

		favouriteSet, err := favouriteTrackNames(ctx, user.ID)
		if err != nil {
			ctx.Logger.Error("Failed to fetch favourites", zap.Error(err))
			renderErrorPage(c, http.StatusInternalServerError, "Failed to load favourites.")
			return
		}

		rows := make([]dashboardRow, 0, len(tableTracks))
		for _, t := range tableTracks {
			rows = append(rows, dashboardRow{Track: t, Favourite: favouriteSet[t.TrackName]})
		}

		summary := track.Summarize(tableTracks)
		topGenres := make([]gin.H, 0, len(summary.TopGenres))
		for _, gp := range summary.TopGenres {
			topGenres = append(topGenres, gin.H{"Genre": gp.Genre, "Plays": utils.FormatCount(float64(gp.Plays))})
		}

		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"User":     user,
			"Datasets": datasets,
			"Selected": dataset,
			"Rows":     rows,

			"TotalStreams":     utils.FormatCount(float64(summary.TotalStreams)),
			"ListeningMinutes": utils.FormatDecimal(summary.ListeningMinutes),
			"TrackCount":       utils.FormatCount(float64(summary.TrackCount)),
			"ArtistCount":      utils.FormatCount(float64(summary.ArtistCount)),
			"AlbumCount":       utils.FormatCount(float64(summary.AlbumCount)),
			"TopGenres":        topGenres,

			"ArtistChart": chart.TopArtistsBar(track.TopArtists(graphTracks, topN), topN),
			"GenreChart":  chart.TopGenresPie(summary.TopGenres),

			"TableMinPlays": c.Query("table_min_plays"),
			"TableMinYear":  c.Query("table_min_year"),
			"TableMaxYear":  c.Query("table_max_year"),
			"GraphMinPlays": c.Query("graph_min_plays"),
			"GraphMinYear":  c.Query("graph_min_year"),
			"GraphMaxYear":  c.Query("graph_max_year"),
			"TopN":          topN,
		})
	}
}

// currentUserID returns the authenticated user's id without hitting the
// database, for handlers that only need the id.
func currentUserID(ctx *appcontext.Context, c *gin.Context) (uuid.UUID, bool) {
	userID, err := utils.GetUserIDFromClaims(c)
	if err != nil {
		ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return uuid.Nil, false
	}
	return userID, true
}

// currentUser resolves the authenticated user for page handlers, rendering
// an error response itself when that fails.
func currentUser(ctx *appcontext.Context, c *gin.Context) (*entity.User, bool) {
	userID, err := utils.GetUserIDFromClaims(c)
	if err != nil {
		ctx.Logger.Error("Failed to get user ID from claims", zap.Error(err))
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil, false
	}

	var user entity.User
	if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
		ctx.Logger.Error("Failed to find user", zap.Error(err))
		c.SetCookie("token", "", -1, "/", "", false, true)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return nil, false
	}

	return &user, true
}
