package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/track"
	"github.com/anglvix/spotify-insight/internal/utils"
)

// Seed bootstraps an empty database: it creates the initial administrator
// account and registers the bundled sample dataset when one is present.
// It only acts on tables that are empty, so restarts are safe.
func Seed(ctx *appcontext.Context) error {
	if err := seedAdmin(ctx); err != nil {
		return err
	}
	return seedSampleDataset(ctx)
}

func seedAdmin(ctx *appcontext.Context) error {
	var count int64
	if err := ctx.DB.Model(&entity.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@spotify-insight.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		ctx.Logger.Warn("ADMIN_PASSWORD not set, seeding default credentials", zap.String("email", email))
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := entity.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
	if err := ctx.DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	ctx.Logger.Info("Seeded initial admin user", zap.String("email", email))
	return nil
}

func seedSampleDataset(ctx *appcontext.Context) error {
	var count int64
	if err := ctx.DB.Model(&entity.Dataset{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count datasets: %w", err)
	}
	if count > 0 {
		return nil
	}

	path := filepath.Join(ctx.DatasetsDir, "spotify.csv")
	if _, err := os.Stat(path); err != nil {
		ctx.Logger.Warn("No sample dataset found, skipping seed", zap.String("path", path))
		return nil
	}

	tracks, err := track.Load(path)
	if err != nil {
		ctx.Logger.Warn("Failed to parse sample dataset, skipping seed", zap.Error(err))
		return nil
	}

	category := entity.Category{Name: "Music", Description: "Listening history datasets"}
	if err := ctx.DB.Where("name = ?", category.Name).FirstOrCreate(&category).Error; err != nil {
		return fmt.Errorf("failed to create default category: %w", err)
	}

	dataset := entity.Dataset{
		Name:        "Spotify Listening History",
		Description: "Bundled sample of listening history data",
		FilePath:    path,
		TrackCount:  len(tracks),
		CategoryID:  &category.ID,
	}
	if err := ctx.DB.Create(&dataset).Error; err != nil {
		return fmt.Errorf("failed to create sample dataset: %w", err)
	}

	if err := utils.IndexDatasetTracks(ctx, dataset.ID, tracks); err != nil {
		ctx.Logger.Warn("Failed to index sample dataset", zap.Error(err))
	}

	ctx.Logger.Info("Seeded sample dataset", zap.String("name", dataset.Name), zap.Int("tracks", len(tracks)))
	return nil
}
