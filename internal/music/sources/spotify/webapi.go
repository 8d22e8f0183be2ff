package spotify

import (
	"context"
	"net/http"
	"time"

	"github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"
)

// WebAPI looks tracks up through the Spotify Web API using the client
// credentials flow.
type WebAPI struct {
	client spotify.Client
}

func NewWebAPI(ctx context.Context, clientID, clientSecret string) *WebAPI {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = 15 * time.Second
	return &WebAPI{client: spotify.NewClient(httpClient)}
}

// NewWebAPIWithClient wraps an already authorised HTTP client.
func NewWebAPIWithClient(httpClient *http.Client) *WebAPI {
	return &WebAPI{client: spotify.NewClient(httpClient)}
}

func (w *WebAPI) Track(ctx context.Context, id string) (Meta, error) {
	type result struct {
		track *spotify.FullTrack
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		t, err := w.client.GetTrack(spotify.ID(id))
		ch <- result{track: t, err: err}
	}()

	var r result
	select {
	case r = <-ch:
	case <-ctx.Done():
		return Meta{}, ctx.Err()
	}
	if r.err != nil {
		return Meta{}, r.err
	}
	return metaFromTrack(r.track), nil
}

func metaFromTrack(t *spotify.FullTrack) Meta {
	m := Meta{
		Title:    t.Name,
		Duration: time.Duration(t.Duration) * time.Millisecond,
	}
	for _, a := range t.Artists {
		m.Artists = append(m.Artists, a.Name)
	}
	if len(t.Album.Images) > 0 {
		m.Thumbnail = t.Album.Images[0].URL
	}
	return m
}
