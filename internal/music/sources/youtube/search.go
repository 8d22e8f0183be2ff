package youtube

import (
	"context"
	"errors"
	"net/http"

	"github.com/keshon/beatbob/internal/music/sources"
	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
)

var ErrNoResults = errors.New("no results found")

// VideoSearch searches regular YouTube videos.
type VideoSearch struct {
	client *ytsearch.Client
}

// NewVideoSearch returns a VideoSearch. httpClient may be nil.
func NewVideoSearch(httpClient *http.Client) *VideoSearch {
	return &VideoSearch{client: ytsearch.NewClient(httpClient)}
}

func (s *VideoSearch) Search(ctx context.Context, query string) (string, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return "", err
	}
	for _, v := range res.Results {
		if v.VideoID != "" {
			return WatchURL(v.VideoID), nil
		}
	}
	return "", ErrNoResults
}

// MusicSearch searches YouTube Music tracks, which matches "artist - title"
// queries better than the video index.
type MusicSearch struct{}

func NewMusicSearch() *MusicSearch { return &MusicSearch{} }

func (s *MusicSearch) Search(ctx context.Context, query string) (string, error) {
	type result struct {
		url string
		err error
	}
	ch := make(chan result, 1)

	go func() {
		r, err := ytmusic.TrackSearch(query).Next()
		if err != nil {
			ch <- result{err: err}
			return
		}
		for _, t := range r.Tracks {
			if t.VideoID != "" {
				ch <- result{url: WatchURL(t.VideoID)}
				return
			}
		}
		ch <- result{err: ErrNoResults}
	}()

	select {
	case r := <-ch:
		return r.url, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FallbackSearch tries each searcher in order.
type FallbackSearch []sources.Searcher

func (f FallbackSearch) Search(ctx context.Context, query string) (string, error) {
	var errs []error
	for _, s := range f {
		u, err := s.Search(ctx, query)
		if err == nil {
			return u, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return "", ErrNoResults
	}
	return "", errors.Join(errs...)
}
