package youtube

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
)

type stubExtractor struct {
	got  string
	info parsers.Info
	err  error
}

func (s *stubExtractor) Name() string { return "stub" }

func (s *stubExtractor) Extract(ctx context.Context, pageURL string) (parsers.Info, error) {
	s.got = pageURL
	if s.err != nil {
		return parsers.Info{}, s.err
	}
	info := s.info
	info.PageURL = pageURL
	return info, nil
}

type stubSearch struct {
	url string
	err error
}

func (s stubSearch) Search(ctx context.Context, query string) (string, error) { return s.url, s.err }

func TestMatch(t *testing.T) {
	src := New(&stubExtractor{}, nil)
	for in, want := range map[string]bool{
		"https://www.youtube.com/watch?v=abc":      true,
		"https://youtu.be/abc":                     true,
		"https://music.youtube.com/watch?v=abc":    true,
		"https://soundcloud.com/a/b":               false,
		"https://example.com/?u=youtube.com/watch": false,
	} {
		if got := src.Match(in); got != want {
			t.Errorf("Match(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestResolveCleansURL(t *testing.T) {
	ex := &stubExtractor{info: parsers.Info{Title: "Song", StreamURL: "https://cdn.test/a", Duration: time.Minute}}
	src := New(ex, nil)

	tr, err := src.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL1&t=30")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ex.got != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("Expected cleaned URL, got %q", ex.got)
	}
	if tr.Origin != player.OriginDirectLink || tr.Source != "youtube" {
		t.Errorf("Unexpected track %+v", tr)
	}
}

func TestResolveRejectsNonVideoURL(t *testing.T) {
	src := New(&stubExtractor{}, nil)
	_, err := src.Resolve(context.Background(), "https://www.youtube.com/@channel")
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Expected ErrInvalidURL, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	ex := &stubExtractor{info: parsers.Info{Title: "Found", StreamURL: "https://cdn.test/b"}}
	src := New(ex, stubSearch{url: WatchURL("abcdefghijk")})

	tr, err := src.Search(context.Background(), "some song")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tr.Origin != player.OriginSearch || tr.PageURL != "https://www.youtube.com/watch?v=abcdefghijk" {
		t.Errorf("Unexpected track %+v", tr)
	}
}

func TestSearchFailure(t *testing.T) {
	src := New(&stubExtractor{}, stubSearch{err: ErrNoResults})
	if _, err := src.Search(context.Background(), "nothing"); !errors.Is(err, ErrNoResults) {
		t.Errorf("Expected ErrNoResults, got %v", err)
	}
}

func TestFallbackSearch(t *testing.T) {
	f := FallbackSearch{stubSearch{err: errors.New("down")}, stubSearch{url: "https://www.youtube.com/watch?v=x"}}
	u, err := f.Search(context.Background(), "q")
	if err != nil || u != "https://www.youtube.com/watch?v=x" {
		t.Errorf("Expected second searcher to win, got %q, %v", u, err)
	}

	if _, err := (FallbackSearch{}).Search(context.Background(), "q"); !errors.Is(err, ErrNoResults) {
		t.Errorf("Expected ErrNoResults, got %v", err)
	}
}

func TestCleanVideoURL(t *testing.T) {
	cases := map[string]string{
		"https://youtu.be/abc?t=12":                      "https://youtu.be/abc",
		"https://music.youtube.com/watch?v=abc&si=xyz":   "https://music.youtube.com/watch?v=abc",
		"https://www.youtube.com/playlist?list=PL1":      "https://www.youtube.com/playlist?list=PL1",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ?x=1": "https://www.youtube.com/shorts/dQw4w9WgXcQ?x=1",
	}
	for in, want := range cases {
		if got := CleanVideoURL(in); got != want {
			t.Errorf("CleanVideoURL(%q): expected %q, got %q", in, want, got)
		}
	}
}
