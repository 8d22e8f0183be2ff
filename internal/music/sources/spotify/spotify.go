package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/sources"
)

var (
	ErrNotConfigured = errors.New("spotify credentials are not configured")
	ErrInvalidURL    = errors.New("invalid Spotify track link")
)

// Meta is the catalog metadata of one Spotify track.
type Meta struct {
	Title     string
	Artists   []string
	Duration  time.Duration
	Thumbnail string
}

// Query is the text used to find the track on YouTube Music.
func (m Meta) Query() string {
	if len(m.Artists) == 0 {
		return m.Title
	}
	return strings.Join(m.Artists, ", ") + " - " + m.Title
}

// TrackLookup fetches catalog metadata for a track ID.
type TrackLookup interface {
	Track(ctx context.Context, id string) (Meta, error)
}

// Source resolves Spotify track links by looking the track up in the catalog
// and playing the best YouTube match.
type Source struct {
	lookup    TrackLookup
	search    sources.Searcher
	extractor parsers.Extractor
}

// New returns a Source. lookup may be nil when no credentials are set.
func New(lookup TrackLookup, search sources.Searcher, extractor parsers.Extractor) *Source {
	return &Source{lookup: lookup, search: search, extractor: extractor}
}

func (s *Source) Name() string { return sources.SourceSpotify }

func (s *Source) Match(input string) bool {
	input = strings.TrimSpace(input)
	return strings.HasPrefix(input, "spotify:track:") || sources.HostIs(input, "spotify.com")
}

func (s *Source) Resolve(ctx context.Context, input string) (player.Track, error) {
	id, err := TrackID(input)
	if err != nil {
		return player.Track{}, err
	}
	if s.lookup == nil {
		return player.Track{}, ErrNotConfigured
	}

	meta, err := s.lookup.Track(ctx, id)
	if err != nil {
		return player.Track{}, fmt.Errorf("spotify lookup %s: %w", id, err)
	}

	pageURL, err := s.search.Search(ctx, meta.Query())
	if err != nil {
		return player.Track{}, fmt.Errorf("no playable match for %q: %w", meta.Query(), err)
	}
	log.Printf("[Source] Spotify track %s matched %s", id, pageURL)

	info, err := s.extractor.Extract(ctx, pageURL)
	if err != nil {
		return player.Track{}, err
	}

	tr := sources.TrackFromInfo(info, sources.SourceSpotify, player.OriginCatalogLink)
	tr.Title = meta.Title
	if len(meta.Artists) > 0 {
		tr.Artist = strings.Join(meta.Artists, ", ")
	}
	if meta.Duration > 0 {
		tr.Duration = meta.Duration
	}
	if meta.Thumbnail != "" {
		tr.Thumbnail = meta.Thumbnail
	}
	return player.NewTrack(tr), nil
}

// TrackID extracts the track ID from an open.spotify.com link or a
// spotify:track: URI.
func TrackID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if rest, ok := strings.CutPrefix(input, "spotify:track:"); ok {
		if rest == "" {
			return "", ErrInvalidURL
		}
		return rest, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", ErrInvalidURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "track" && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", ErrInvalidURL
}
