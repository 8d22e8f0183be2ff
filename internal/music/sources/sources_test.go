package sources

import (
	"testing"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
)

func TestIsURL(t *testing.T) {
	cases := map[string]bool{
		"https://www.youtube.com/watch?v=x": true,
		"http://radio.test:8000/stream":     true,
		"  https://example.com  ":           true,
		"never gonna give you up":           false,
		"ftp://files.test/a.mp3":            false,
		"https://":                          false,
	}
	for in, want := range cases {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestHostIs(t *testing.T) {
	if !HostIs("https://open.spotify.com/track/1", "spotify.com") {
		t.Errorf("Expected subdomain to match")
	}
	if !HostIs("https://soundcloud.com/a/b", "soundcloud.com") {
		t.Errorf("Expected exact host to match")
	}
	if HostIs("https://notspotify.com/track/1", "spotify.com") {
		t.Errorf("Suffix without dot must not match")
	}
}

func TestTrackFromInfo(t *testing.T) {
	tr := TrackFromInfo(parsers.Info{
		Title:     "Song",
		StreamURL: "https://cdn.test/a",
		Duration:  90 * time.Second,
	}, SourceYouTube, player.OriginSearch)

	if tr.ID == "" || tr.Source != SourceYouTube || tr.Origin != player.OriginSearch {
		t.Errorf("Unexpected track %+v", tr)
	}
	if tr.DurationText() != "1:30" {
		t.Errorf("Expected 1:30, got %s", tr.DurationText())
	}
}
