package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
)

func InitContext() (*appcontext.Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	logger, err := InitLogger()
	if err != nil {
		return nil, err
	}

	db, err := InitDB()
	if err != nil {
		return nil, err
	}

	datasetsDir := os.Getenv("DATASETS_DIR")
	if datasetsDir == "" {
		datasetsDir = "datasets"
	}
	if err := os.MkdirAll(datasetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create datasets directory: %w", err)
	}

	meilisearchClient, err := InitMeilisearch()
	if err != nil {
		return nil, err
	}
	if meilisearchClient == nil {
		logger.Warn("MEILISEARCH_HOST not set, track search is disabled")
	}

	oauth2Config := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	ctx := &appcontext.Context{
		DB:     db,
		Logger: logger,

		DatasetsDir: datasetsDir,

		OAuth2Config:      oauth2Config,
		MeilisearchClient: meilisearchClient,
	}

	if err := Seed(ctx); err != nil {
		return nil, err
	}

	return ctx, nil
}

func InitDB() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	err = db.AutoMigrate(&entity.User{}, &entity.Category{}, &entity.Dataset{}, &entity.Comment{}, &entity.Notification{}, &entity.Favourite{}, &entity.AuditEntry{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// InitMeilisearch connects to the search backend and prepares the tracks
// index. Returns a nil client when MEILISEARCH_HOST is not set, in which
// case the search endpoints report search as unavailable.
func InitMeilisearch() (*meilisearch.Client, error) {
	host := os.Getenv("MEILISEARCH_HOST")
	if host == "" {
		return nil, nil
	}

	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: os.Getenv("MEILISEARCH_API_KEY"),
	})

	_, err := client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        "tracks",
		PrimaryKey: "id",
	})
	if err != nil {
		// If the error is because the index already exists, that's fine
		if strings.Contains(err.Error(), "already exists") {
			// Index already exists, continue with updating settings
		} else {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Set filterable attributes
	task, err := client.Index("tracks").UpdateFilterableAttributes(&[]string{
		"dataset_id",
		"artist",
		"album",
		"genre",
		"year",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update filterable attributes: %w", err)
	}

	// Wait for the task to complete
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for filterable attributes update: %w", err)
	}

	// Set searchable attributes
	task, err = client.Index("tracks").UpdateSearchableAttributes(&[]string{
		"track_name",
		"artist",
		"album",
		"genre",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update searchable attributes: %w", err)
	}

	// Wait for the task to complete
	_, err = client.WaitForTask(task.TaskUID)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for searchable attributes update: %w", err)
	}

	return client, nil
}
