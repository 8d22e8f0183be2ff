package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/sources"
)

var ErrInvalidURL = errors.New("invalid YouTube URL format")

// Source resolves YouTube links and free-text searches.
type Source struct {
	extractor parsers.Extractor
	search    sources.Searcher
}

func New(extractor parsers.Extractor, search sources.Searcher) *Source {
	return &Source{extractor: extractor, search: search}
}

func (y *Source) Name() string { return sources.SourceYouTube }

func (y *Source) Match(input string) bool {
	return isYouTubeURL(input)
}

func (y *Source) Resolve(ctx context.Context, input string) (player.Track, error) {
	input = strings.TrimSpace(input)
	if !isYouTubeVideoURL(input) {
		return player.Track{}, ErrInvalidURL
	}

	info, err := y.extractor.Extract(ctx, CleanVideoURL(input))
	if err != nil {
		return player.Track{}, err
	}
	return sources.TrackFromInfo(info, sources.SourceYouTube, player.OriginDirectLink), nil
}

// Search resolves the first search hit for query.
func (y *Source) Search(ctx context.Context, query string) (player.Track, error) {
	if y.search == nil {
		return player.Track{}, errors.New("search is not configured")
	}

	pageURL, err := y.search.Search(ctx, query)
	if err != nil {
		return player.Track{}, err
	}
	log.Printf("[Source] Search %q matched %s", query, pageURL)

	info, err := y.extractor.Extract(ctx, pageURL)
	if err != nil {
		return player.Track{}, fmt.Errorf("search hit %s: %w", pageURL, err)
	}
	return sources.TrackFromInfo(info, sources.SourceYouTube, player.OriginSearch), nil
}
