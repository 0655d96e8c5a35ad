package track

import (
	"sort"
	"strconv"
)

const (
	// DefaultTopArtists is how many artists the chart shows when the user
	// does not ask for a specific count.
	DefaultTopArtists = 10
	// MaxTopArtists caps the requested chart size.
	MaxTopArtists = 50

	topGenreCount = 5
)

type ArtistPlays struct {
	Artist string `json:"artist"`
	Plays  int    `json:"plays"`
}

type GenrePlays struct {
	Genre string `json:"genre"`
	Plays int    `json:"plays"`
}

// Summary aggregates a set of tracks for the dashboard stat cards.
type Summary struct {
	TotalStreams     int
	ListeningMinutes float64
	TrackCount       int
	ArtistCount      int
	AlbumCount       int
	TopGenres        []GenrePlays
}

// ClampTopN parses the requested chart size, falling back to the default on
// malformed input and clamping the result to 1..MaxTopArtists.
func ClampTopN(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultTopArtists
	}
	if n < 1 {
		return 1
	}
	if n > MaxTopArtists {
		return MaxTopArtists
	}
	return n
}

// TopArtists ranks artists by total play count, descending. Ties break
// alphabetically so the order is stable across requests.
func TopArtists(tracks []Track, n int) []ArtistPlays {
	totals := make(map[string]int)
	for _, t := range tracks {
		if t.Artist == "" {
			continue
		}
		totals[t.Artist] += t.PlayCount
	}
	ranked := make([]ArtistPlays, 0, len(totals))
	for artist, plays := range totals {
		ranked = append(ranked, ArtistPlays{Artist: artist, Plays: plays})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Plays == ranked[j].Plays {
			return ranked[i].Artist < ranked[j].Artist
		}
		return ranked[i].Plays > ranked[j].Plays
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopGenres ranks genres by total play count, descending.
func TopGenres(tracks []Track, n int) []GenrePlays {
	totals := make(map[string]int)
	for _, t := range tracks {
		if t.Genre == "" {
			continue
		}
		totals[t.Genre] += t.PlayCount
	}
	ranked := make([]GenrePlays, 0, len(totals))
	for genre, plays := range totals {
		ranked = append(ranked, GenrePlays{Genre: genre, Plays: plays})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Plays == ranked[j].Plays {
			return ranked[i].Genre < ranked[j].Genre
		}
		return ranked[i].Plays > ranked[j].Plays
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize computes the dashboard aggregates over the given tracks.
// Listening minutes weight each track's duration by its play count.
func Summarize(tracks []Track) Summary {
	artists := make(map[string]struct{})
	albums := make(map[string]struct{})
	var streams int
	var playedMS float64
	for _, t := range tracks {
		streams += t.PlayCount
		playedMS += float64(t.DurationMS) * float64(t.PlayCount)
		if t.Artist != "" {
			artists[t.Artist] = struct{}{}
		}
		if t.Album != "" {
			albums[t.Album] = struct{}{}
		}
	}
	return Summary{
		TotalStreams:     streams,
		ListeningMinutes: playedMS / 60000,
		TrackCount:       len(tracks),
		ArtistCount:      len(artists),
		AlbumCount:       len(albums),
		TopGenres:        TopGenres(tracks, topGenreCount),
	}
}
