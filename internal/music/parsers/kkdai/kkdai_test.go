package kkdai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/keshon/beatbob/pkg/retrylimit"

	youtube "github.com/kkdai/youtube/v2"
)

func TestExtractYouTubeID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":             "dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&t=42": "dQw4w9WgXcQ",
		"https://music.youtube.com/watch?v=dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?t=10":                       "dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ":              "dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ":               "dQw4w9WgXcQ",
	}
	for in, want := range cases {
		got, err := extractYouTubeID(in)
		if err != nil {
			t.Errorf("extractYouTubeID(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("extractYouTubeID(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestExtractYouTubeIDRejects(t *testing.T) {
	for _, in := range []string{
		"https://soundcloud.com/artist/track",
		"https://www.youtube.com/playlist?list=PL123",
		"https://youtu.be/short",
		"not a url",
	} {
		if _, err := extractYouTubeID(in); !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("extractYouTubeID(%q): expected ErrUnsupportedURL, got %v", in, err)
		}
	}
}

func TestNewHTTPClientProxies(t *testing.T) {
	if c := NewHTTPClient(""); c.Transport != nil {
		t.Errorf("Expected direct client without proxy")
	}

	c := NewHTTPClient("http://127.0.0.1:8080")
	tr, ok := c.Transport.(*http.Transport)
	if !ok || tr.Proxy == nil {
		t.Fatalf("Expected HTTP proxy transport, got %T", c.Transport)
	}

	c = NewHTTPClient("socks5://127.0.0.1:1080")
	if tr, ok := c.Transport.(*http.Transport); !ok || tr.DialContext == nil {
		t.Errorf("Expected SOCKS5 dialing transport")
	}

	if c := NewHTTPClient("ftp://127.0.0.1"); c.Transport != nil {
		t.Errorf("Expected direct client for unsupported scheme")
	}
}

func TestWithStatusExposesStatusCode(t *testing.T) {
	err := withStatus(fmt.Errorf("fetch player: %w", youtube.ErrUnexpectedStatusCode(http.StatusTooManyRequests)), "https://youtu.be/x")

	var se *retrylimit.StatusError
	if !errors.As(err, &se) || se.StatusCode() != http.StatusTooManyRequests {
		t.Fatalf("Expected a 429 StatusError, got %v", err)
	}
	var code youtube.ErrUnexpectedStatusCode
	if !errors.As(err, &code) {
		t.Errorf("Expected the original error to stay reachable")
	}

	plain := errors.New("boom")
	if withStatus(plain, "https://youtu.be/x") != plain {
		t.Errorf("Expected errors without a status to pass through")
	}
}

func TestThrottledRequestLowersLimiter(t *testing.T) {
	lim := retrylimit.NewAdaptiveLimiter(10, 1, 20, 1, 0.5)
	cfg := retrylimit.RetryConfig{MaxAttempts: 2}

	calls := 0
	err := retrylimit.WithRetryConfig(context.Background(), func() error {
		calls++
		return withStatus(youtube.ErrUnexpectedStatusCode(http.StatusTooManyRequests), "https://youtu.be/x")
	}, lim, cfg)

	if err == nil || calls != 2 {
		t.Fatalf("Expected two failed attempts, got %d calls and %v", calls, err)
	}
	if got := lim.CurrentLimit(); got >= 10 {
		t.Errorf("Expected the limiter to step down from 10 rps, got %.2f", got)
	}
}
