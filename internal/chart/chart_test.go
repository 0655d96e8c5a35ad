package chart

import (
	"strings"
	"testing"

	"github.com/anglvix/spotify-insight/internal/track"
)

func TestTopArtistsBar(t *testing.T) {
	ranked := []track.ArtistPlays{
		{Artist: "The Weeknd", Plays: 677},
		{Artist: "Dua Lipa", Plays: 761},
	}

	html := string(TopArtistsBar(ranked, 10))
	if html == "" {
		t.Fatal("expected a rendered snippet")
	}
	if !strings.Contains(html, "<div") {
		t.Error("expected a container element")
	}
	if !strings.Contains(html, "<script") {
		t.Error("expected an init script")
	}
	if !strings.Contains(html, "The Weeknd") {
		t.Error("expected artist names in the chart data")
	}
	if !strings.Contains(html, "Top 10 Artists") {
		t.Error("expected the requested count in the title")
	}
}

func TestTopGenresPie(t *testing.T) {
	ranked := []track.GenrePlays{
		{Genre: "pop", Plays: 1200},
		{Genre: "rock", Plays: 800},
	}

	html := string(TopGenresPie(ranked))
	if !strings.Contains(html, "<div") || !strings.Contains(html, "<script") {
		t.Fatal("expected a container element and an init script")
	}
	if !strings.Contains(html, "pop") {
		t.Error("expected genre names in the chart data")
	}
}

func TestChartsWithNoData(t *testing.T) {
	if html := string(TopArtistsBar(nil, 10)); html == "" {
		t.Error("expected a snippet even with no data")
	}
	if html := string(TopGenresPie(nil)); html == "" {
		t.Error("expected a snippet even with no data")
	}
}
