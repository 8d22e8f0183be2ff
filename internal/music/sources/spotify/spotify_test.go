package spotify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
	zspotify "github.com/zmb3/spotify"
)

type fakeLookup struct {
	meta Meta
	err  error
	got  string
}

func (f *fakeLookup) Track(ctx context.Context, id string) (Meta, error) {
	f.got = id
	return f.meta, f.err
}

type fakeSearch struct {
	query string
	url   string
	err   error
}

func (f *fakeSearch) Search(ctx context.Context, query string) (string, error) {
	f.query = query
	return f.url, f.err
}

type fakeExtractor struct{}

func (fakeExtractor) Name() string { return "fake" }

func (fakeExtractor) Extract(ctx context.Context, pageURL string) (parsers.Info, error) {
	return parsers.Info{Title: "YouTube title", StreamURL: "https://cdn.test/s", PageURL: pageURL, Duration: time.Minute}, nil
}

func TestTrackID(t *testing.T) {
	cases := map[string]string{
		"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC":         "4uLU6hMCjMI75M1A2tKUQC",
		"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc":  "4uLU6hMCjMI75M1A2tKUQC",
		"https://open.spotify.com/intl-de/track/4uLU6hMCjMI75M1A2tKUQC": "4uLU6hMCjMI75M1A2tKUQC",
		"spotify:track:4uLU6hMCjMI75M1A2tKUQC":                          "4uLU6hMCjMI75M1A2tKUQC",
	}
	for in, want := range cases {
		got, err := TrackID(in)
		if err != nil || got != want {
			t.Errorf("TrackID(%q): expected %q, got %q (%v)", in, want, got, err)
		}
	}

	for _, in := range []string{"https://open.spotify.com/album/123", "spotify:track:", "https://open.spotify.com/track/"} {
		if _, err := TrackID(in); !errors.Is(err, ErrInvalidURL) {
			t.Errorf("TrackID(%q): expected ErrInvalidURL, got %v", in, err)
		}
	}
}

func TestMatch(t *testing.T) {
	s := New(nil, nil, nil)
	if !s.Match("https://open.spotify.com/track/abc") || !s.Match("spotify:track:abc") {
		t.Errorf("Expected Spotify links to match")
	}
	if s.Match("https://youtube.com/watch?v=abc") {
		t.Errorf("Did not expect YouTube link to match")
	}
}

func TestResolveUsesCatalogMetadata(t *testing.T) {
	lookup := &fakeLookup{meta: Meta{
		Title:     "Never Gonna Give You Up",
		Artists:   []string{"Rick Astley"},
		Duration:  213 * time.Second,
		Thumbnail: "https://i.scdn.co/cover.jpg",
	}}
	search := &fakeSearch{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	s := New(lookup, search, fakeExtractor{})

	tr, err := s.Resolve(context.Background(), "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if lookup.got != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("Expected lookup by ID, got %q", lookup.got)
	}
	if search.query != "Rick Astley - Never Gonna Give You Up" {
		t.Errorf("Unexpected search query %q", search.query)
	}
	if tr.Title != "Never Gonna Give You Up" || tr.Duration != 213*time.Second || tr.Thumbnail != "https://i.scdn.co/cover.jpg" {
		t.Errorf("Expected catalog metadata, got %+v", tr)
	}
	if tr.Origin != player.OriginCatalogLink || tr.StreamURL != "https://cdn.test/s" {
		t.Errorf("Unexpected track %+v", tr)
	}
}

func TestResolveWithoutCredentials(t *testing.T) {
	s := New(nil, &fakeSearch{}, fakeExtractor{})
	if _, err := s.Resolve(context.Background(), "spotify:track:abc"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestResolveLookupFailure(t *testing.T) {
	boom := errors.New("404")
	s := New(&fakeLookup{err: boom}, &fakeSearch{}, fakeExtractor{})
	if _, err := s.Resolve(context.Background(), "spotify:track:abc"); !errors.Is(err, boom) {
		t.Errorf("Expected lookup error, got %v", err)
	}
}

func TestMetaFromTrack(t *testing.T) {
	ft := &zspotify.FullTrack{
		SimpleTrack: zspotify.SimpleTrack{
			Name:     "Song",
			Duration: 61500,
			Artists:  []zspotify.SimpleArtist{{Name: "A"}, {Name: "B"}},
		},
		Album: zspotify.SimpleAlbum{Images: []zspotify.Image{{URL: "https://img.test/1"}}},
	}
	m := metaFromTrack(ft)
	if m.Title != "Song" || m.Duration != 61500*time.Millisecond || m.Thumbnail != "https://img.test/1" {
		t.Errorf("Unexpected meta %+v", m)
	}
	if m.Query() != "A, B - Song" {
		t.Errorf("Unexpected query %q", m.Query())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(r *http.Request, code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func TestWebAPITrack(t *testing.T) {
	var path string
	api := NewWebAPIWithClient(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		path = r.URL.Path
		return jsonResponse(r, http.StatusOK, `{
			"id": "abc123",
			"name": "Song",
			"duration_ms": 200000,
			"artists": [{"name": "Artist"}],
			"album": {"images": [{"url": "https://img.test/cover"}]}
		}`), nil
	})})

	m, err := api.Track(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "/tracks/abc123") {
		t.Errorf("Expected track lookup path, got %s", path)
	}
	if m.Title != "Song" || m.Duration != 200*time.Second || m.Thumbnail != "https://img.test/cover" {
		t.Errorf("Unexpected meta %+v", m)
	}
	if m.Query() != "Artist - Song" {
		t.Errorf("Unexpected query %q", m.Query())
	}
}

func TestWebAPITrackError(t *testing.T) {
	api := NewWebAPIWithClient(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(r, http.StatusNotFound, `{"error": {"status": 404, "message": "non existing id"}}`), nil
	})})

	if _, err := api.Track(context.Background(), "missing"); err == nil {
		t.Errorf("Expected an error for an unknown track")
	}
}
