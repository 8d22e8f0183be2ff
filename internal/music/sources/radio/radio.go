// Package radio plays any other http(s) link: raw audio streams as they are,
// everything else through the generic yt-dlp extractor.
package radio

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/sources"
)

type Source struct {
	prober    *Prober
	extractor parsers.Extractor
}

// New returns a Source. extractor handles links that are not raw streams and
// may be nil.
func New(prober *Prober, extractor parsers.Extractor) *Source {
	if prober == nil {
		prober = NewProber()
	}
	return &Source{prober: prober, extractor: extractor}
}

func (r *Source) Name() string { return sources.SourceRadio }

func (r *Source) Match(input string) bool {
	return sources.IsURL(input)
}

func (r *Source) Resolve(ctx context.Context, input string) (player.Track, error) {
	input = strings.TrimSpace(input)

	probe, err := r.prober.Probe(ctx, input)
	if err == nil && probe.IsStream() {
		title := probe.StationName
		if title == "" {
			title = hostOf(input)
		}
		return player.NewTrack(player.Track{
			Title:     title,
			StreamURL: probe.FinalURL,
			PageURL:   input,
			Origin:    player.OriginDirectLink,
			Source:    sources.SourceRadio,
		}), nil
	}

	if r.extractor == nil {
		if err != nil {
			return player.Track{}, err
		}
		return player.Track{}, &notStreamError{contentType: probe.ContentType}
	}
	if err != nil {
		log.Printf("[Source] Probe of %s failed, trying extractor: %v", input, err)
	}

	info, xerr := r.extractor.Extract(ctx, input)
	if xerr != nil {
		return player.Track{}, xerr
	}
	return sources.TrackFromInfo(info, sources.SourceRadio, player.OriginDirectLink), nil
}

type notStreamError struct {
	contentType string
}

func (e *notStreamError) Error() string {
	return "link is not an audio stream (content-type " + e.contentType + ")"
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
