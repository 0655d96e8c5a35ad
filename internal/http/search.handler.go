package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/anglvix/spotify-insight/internal/appcontext"
)

// SearchTracks queries the track index. A "field:value" prefix narrows the
// query to one attribute, so "artist:daft punk" filters on artist while
// "genre:rock discovery" filters genre to rock and searches for discovery.
func SearchTracks(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctx.MeilisearchClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
			return
		}

		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
			return
		}

		var filters []string
		if raw := c.Query("dataset_id"); raw != "" {
			datasetID, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset_id"})
				return
			}
			filters = append(filters, fmt.Sprintf("dataset_id = %q", datasetID.String()))
		}

		actualQuery := query
		switch {
		case strings.HasPrefix(query, "artist:"):
			value, rest := splitPrefixed(strings.TrimPrefix(query, "artist:"))
			filters = append(filters, fmt.Sprintf("artist = %q", value))
			actualQuery = rest
		case strings.HasPrefix(query, "album:"):
			value, rest := splitPrefixed(strings.TrimPrefix(query, "album:"))
			filters = append(filters, fmt.Sprintf("album = %q", value))
			actualQuery = rest
		case strings.HasPrefix(query, "genre:"):
			value, rest := splitPrefixed(strings.TrimPrefix(query, "genre:"))
			filters = append(filters, fmt.Sprintf("genre = %q", value))
			actualQuery = rest
		}

		searchParams := &meilisearch.SearchRequest{
			Query:  actualQuery,
			Filter: strings.Join(filters, " AND "),
		}

		searchResult, err := ctx.MeilisearchClient.Index("tracks").Search(actualQuery, searchParams)
		if err != nil {
			ctx.Logger.Error("Failed to perform search", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": searchResult.Hits})
	}
}

// splitPrefixed separates the filtered value from the remaining free text
// query. Quoted values may contain spaces: artist:"daft punk" robot.
func splitPrefixed(s string) (value, rest string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `"`) {
		if end := strings.Index(s[1:], `"`); end >= 0 {
			return s[1 : end+1], strings.TrimSpace(s[end+2:])
		}
		return strings.Trim(s, `"`), ""
	}
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx], strings.TrimSpace(s[idx+1:])
	}
	return s, ""
}
