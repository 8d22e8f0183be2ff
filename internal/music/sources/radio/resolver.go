package radio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

var validContentTypes = []string{
	"audio/",
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream",
}

// Probe is what a HEAD (or GET) request revealed about a link.
type Probe struct {
	ContentType string
	FinalURL    string
	StationName string
}

// Prober checks whether a link is a raw audio stream.
type Prober struct {
	Client *http.Client
}

func NewProber() *Prober {
	return &Prober{
		Client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Probe requests rawURL and reports its content type, final URL and ICY
// station name. HEAD is tried first; streams that refuse it get a GET whose
// body is closed unread.
func (p *Prober) Probe(ctx context.Context, rawURL string) (Probe, error) {
	resp, err := p.do(ctx, http.MethodHead, rawURL)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		resp, err = p.do(ctx, http.MethodGet, rawURL)
		if err != nil {
			return Probe{}, fmt.Errorf("probe %s: %w", rawURL, err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Probe{}, fmt.Errorf("probe %s: status %d", rawURL, resp.StatusCode)
	}

	return Probe{
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		StationName: strings.TrimSpace(resp.Header.Get("icy-name")),
	}, nil
}

func (p *Prober) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Icy-MetaData", "1")
	return p.Client.Do(req)
}

// IsStream reports whether the probe looks like playable audio rather than a
// web page.
func (pr Probe) IsStream() bool {
	return isAllowedType(pr.ContentType) || isLikelyPlaylist(pr.FinalURL)
}

func isAllowedType(contentType string) bool {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range validContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func isLikelyPlaylist(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}
