package soundcloud

import (
	"context"
	"strings"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/sources"
)

// Source resolves soundcloud.com track links through yt-dlp.
type Source struct {
	extractor parsers.Extractor
}

func New(extractor parsers.Extractor) *Source {
	return &Source{extractor: extractor}
}

func (s *Source) Name() string { return sources.SourceSoundCloud }

func (s *Source) Match(input string) bool {
	return sources.HostIs(input, "soundcloud.com") || sources.HostIs(input, "snd.sc")
}

func (s *Source) Resolve(ctx context.Context, input string) (player.Track, error) {
	info, err := s.extractor.Extract(ctx, cleanURL(strings.TrimSpace(input)))
	if err != nil {
		return player.Track{}, err
	}
	return sources.TrackFromInfo(info, sources.SourceSoundCloud, player.OriginDirectLink), nil
}

// cleanURL drops the query string, which only carries sharing trackers.
func cleanURL(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
