package appcontext

import (
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	// DatasetsDir is where uploaded listening history CSV files live.
	DatasetsDir string

	OAuth2Config *oauth2.Config

	// MeilisearchClient is nil when search is not configured.
	MeilisearchClient *meilisearch.Client
}
