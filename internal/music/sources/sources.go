// Package sources holds the per-site resolvers that turn a link or a search
// query into a playable track.
package sources

import (
	"context"
	"net/url"
	"strings"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
)

const (
	SourceYouTube    = "youtube"
	SourceSpotify    = "spotify"
	SourceSoundCloud = "soundcloud"
	SourceRadio      = "radio"
)

// Source resolves links it recognises.
type Source interface {
	Name() string
	Match(input string) bool
	Resolve(ctx context.Context, input string) (player.Track, error)
}

// Searcher turns free text into the page URL of the best match.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// IsURL reports whether s is an absolute http(s) URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// HostIs reports whether the host of rawURL is domain or one of its
// subdomains.
func HostIs(rawURL string, domain string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// TrackFromInfo builds a track from extractor output.
func TrackFromInfo(info parsers.Info, source string, origin player.Origin) player.Track {
	return player.NewTrack(player.Track{
		Title:     info.Title,
		Artist:    info.Artist,
		StreamURL: info.StreamURL,
		PageURL:   info.PageURL,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
		Origin:    origin,
		Source:    source,
	})
}
