// Package source_resolver classifies a user query and hands it to the source
// that can turn it into a playable track.
package source_resolver

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/sources"
	"github.com/keshon/beatbob/internal/music/sources/spotify"
	"github.com/keshon/beatbob/internal/music/sources/youtube"
)

// TrackSearcher resolves free text to a track.
type TrackSearcher interface {
	Search(ctx context.Context, query string) (player.Track, error)
}

// SourceResolver implements player.Resolver.
type SourceResolver struct {
	search TrackSearcher
	links  []sources.Source
}

// New returns a resolver. links are tried in order, so a catch-all source
// such as radio must come last.
func New(search TrackSearcher, links ...sources.Source) *SourceResolver {
	return &SourceResolver{search: search, links: links}
}

// Classify tells how a query will be resolved.
func Classify(query string) player.Origin {
	query = strings.TrimSpace(query)
	switch {
	case strings.HasPrefix(query, "spotify:track:"), sources.IsURL(query) && sources.HostIs(query, "spotify.com"):
		return player.OriginCatalogLink
	case sources.IsURL(query):
		return player.OriginDirectLink
	default:
		return player.OriginSearch
	}
}

func (r *SourceResolver) Resolve(ctx context.Context, query string) (player.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return player.Track{}, player.NewResolutionError(query, "empty query", nil)
	}

	origin := Classify(query)

	var (
		t   player.Track
		err error
	)
	if origin == player.OriginSearch {
		if r.search == nil {
			return player.Track{}, player.NewResolutionError(query, "search is not available", nil)
		}
		t, err = r.search.Search(ctx, query)
	} else {
		src := r.match(query)
		if src == nil {
			return player.Track{}, player.NewResolutionError(query, "unsupported link", nil)
		}
		log.Printf("[Resolver] %s link handled by %s", origin, src.Name())
		t, err = src.Resolve(ctx, query)
	}
	if err != nil {
		return player.Track{}, player.NewResolutionError(query, reasonFor(ctx, err), err)
	}
	if !t.Playable() {
		return player.Track{}, player.NewResolutionError(query, "nothing playable found", nil)
	}

	t.Origin = origin
	return t, nil
}

func (r *SourceResolver) match(query string) sources.Source {
	for _, s := range r.links {
		if s.Match(query) {
			return s
		}
	}
	return nil
}

func reasonFor(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "resolver timed out"
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return "request was cancelled"
	case errors.Is(err, youtube.ErrNoResults):
		return "nothing found"
	case errors.Is(err, spotify.ErrNotConfigured):
		return "Spotify links are not enabled on this bot"
	case errors.Is(err, youtube.ErrInvalidURL), errors.Is(err, spotify.ErrInvalidURL):
		return "invalid link"
	default:
		return "could not load that track"
	}
}
