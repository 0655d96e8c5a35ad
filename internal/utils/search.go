package utils

import (
	"fmt"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/track"
	"github.com/google/uuid"
)

const searchIndexUID = "tracks"

// TrackDocumentID builds the search document id for one row of a dataset.
// Meilisearch ids only allow alphanumerics, hyphens and underscores, which
// uuid strings and row numbers satisfy.
func TrackDocumentID(datasetID uuid.UUID, row int) string {
	return fmt.Sprintf("%s_%d", datasetID, row)
}

func TrackToDocument(datasetID uuid.UUID, row int, t track.Track) map[string]interface{} {
	return map[string]interface{}{
		"id":         TrackDocumentID(datasetID, row),
		"dataset_id": datasetID.String(),
		"track_name": t.TrackName,
		"artist":     t.Artist,
		"album":      t.Album,
		"genre":      t.Genre,
		"year":       t.Year,
		"play_count": t.PlayCount,
	}
}

// IndexDatasetTracks pushes a dataset's rows into the search index in batches.
// No-op when search is not configured.
func IndexDatasetTracks(ctx *appcontext.Context, datasetID uuid.UUID, tracks []track.Track) error {
	if ctx.MeilisearchClient == nil {
		return nil
	}
	const batchSize = 500
	for start := 0; start < len(tracks); start += batchSize {
		end := min(start+batchSize, len(tracks))
		documents := make([]map[string]interface{}, 0, end-start)
		for i := start; i < end; i++ {
			documents = append(documents, TrackToDocument(datasetID, i, tracks[i]))
		}
		if _, err := ctx.MeilisearchClient.Index(searchIndexUID).AddDocuments(documents); err != nil {
			return fmt.Errorf("failed to index tracks: %w", err)
		}
	}
	return nil
}

// RemoveDatasetTracks drops a dataset's rows from the search index. The row
// count is taken from the dataset record since the file may already be gone.
func RemoveDatasetTracks(ctx *appcontext.Context, datasetID uuid.UUID, trackCount int) error {
	if ctx.MeilisearchClient == nil || trackCount <= 0 {
		return nil
	}
	ids := make([]string, 0, trackCount)
	for i := 0; i < trackCount; i++ {
		ids = append(ids, TrackDocumentID(datasetID, i))
	}
	if _, err := ctx.MeilisearchClient.Index(searchIndexUID).DeleteDocuments(ids); err != nil {
		return fmt.Errorf("failed to remove tracks from index: %w", err)
	}
	return nil
}
