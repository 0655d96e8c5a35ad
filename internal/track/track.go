package track

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Track is one row of a listening history CSV.
type Track struct {
	TrackName    string  `json:"track_name"`
	Artist       string  `json:"artist"`
	Album        string  `json:"album"`
	Genre        string  `json:"genre"`
	Year         int     `json:"year"`
	PlayCount    int     `json:"play_count"`
	DurationMS   int     `json:"duration_ms"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
}

// DurationMin converts the stored millisecond duration to minutes.
func (t Track) DurationMin() float64 {
	return float64(t.DurationMS) / 60000
}

// Load reads and parses the CSV file at path.
func Load(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads tracks from CSV data. Columns are matched by header name, rows
// without a track name are skipped, and unparsable numeric cells become zero
// values so a single bad row cannot take the whole dataset down.
func Parse(r io.Reader) ([]Track, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["track_name"]; !ok {
		return nil, fmt.Errorf("dataset has no track_name column")
	}

	var tracks []Track
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		name := cell("track_name")
		if name == "" {
			continue
		}
		tracks = append(tracks, Track{
			TrackName:    name,
			Artist:       cell("artist"),
			Album:        cell("album"),
			Genre:        cell("genre"),
			Year:         atoi(cell("year")),
			PlayCount:    atoi(cell("play_count")),
			DurationMS:   atoi(cell("duration_ms")),
			Energy:       atof(cell("energy")),
			Danceability: atof(cell("danceability")),
		})
	}
	return tracks, nil
}

// FindByName returns the first track with the given name.
func FindByName(tracks []Track, name string) (Track, bool) {
	for _, t := range tracks {
		if t.TrackName == name {
			return t, true
		}
	}
	return Track{}, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
