package parsers

import (
	"context"
	"errors"
	"testing"
)

type stubExtractor struct {
	name  string
	info  Info
	err   error
	calls int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(ctx context.Context, pageURL string) (Info, error) {
	s.calls++
	return s.info, s.err
}

func TestChainFallsBack(t *testing.T) {
	first := &stubExtractor{name: "first", err: errors.New("blocked")}
	second := &stubExtractor{name: "second", info: Info{Title: "ok", StreamURL: "https://cdn.test/a"}}
	third := &stubExtractor{name: "third"}

	info, err := Chain{first, second, third}.Extract(context.Background(), "https://page.test")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Title != "ok" {
		t.Errorf("Expected result of second extractor, got %+v", info)
	}
	if third.calls != 0 {
		t.Errorf("Chain must stop at the first success")
	}
}

func TestChainTreatsEmptyStreamAsFailure(t *testing.T) {
	empty := &stubExtractor{name: "empty", info: Info{Title: "no stream"}}
	_, err := Chain{empty}.Extract(context.Background(), "https://page.test")
	if err == nil {
		t.Fatal("Expected error when no extractor yields a stream URL")
	}
}

func TestChainJoinsErrors(t *testing.T) {
	cause := errors.New("boom")
	_, err := Chain{
		&stubExtractor{name: "a", err: cause},
		&stubExtractor{name: "b", err: errors.New("other")},
	}.Extract(context.Background(), "https://page.test")

	if !errors.Is(err, cause) {
		t.Errorf("Expected joined error to contain cause, got %v", err)
	}
	if _, err := (Chain{}).Extract(context.Background(), "x"); !errors.Is(err, ErrNoExtractor) {
		t.Errorf("Expected ErrNoExtractor, got %v", err)
	}
}

func TestChainName(t *testing.T) {
	c := Chain{&stubExtractor{name: "ytdlp"}, &stubExtractor{name: "kkdai"}}
	if got := c.Name(); got != "ytdlp>kkdai" {
		t.Errorf("Expected 'ytdlp>kkdai', got %q", got)
	}
}
