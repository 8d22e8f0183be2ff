package kkdai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/pkg/retrylimit"

	_ "github.com/bdandy/go-socks4"
	youtube "github.com/kkdai/youtube/v2"
	"golang.org/x/net/proxy"
)

const maxAttempts = 2

var ErrNoAudioFormats = errors.New("no audio formats found for video")

// Extractor resolves YouTube pages with the kkdai/youtube client. It only
// understands YouTube URLs.
type Extractor struct {
	client  *youtube.Client
	limiter *retrylimit.AdaptiveLimiter
}

// New returns an Extractor using proxyStr (http, https, socks4 or socks5) if
// it is not empty.
func New(proxyStr string, limiter *retrylimit.AdaptiveLimiter) *Extractor {
	return &Extractor{
		client:  &youtube.Client{HTTPClient: NewHTTPClient(proxyStr)},
		limiter: limiter,
	}
}

func (e *Extractor) Name() string { return "kkdai" }

func (e *Extractor) Extract(ctx context.Context, pageURL string) (parsers.Info, error) {
	videoID, err := extractYouTubeID(pageURL)
	if err != nil {
		return parsers.Info{}, err
	}

	var info parsers.Info
	err = retrylimit.WithRetryMax(ctx, func() error {
		video, err := e.client.GetVideoContext(ctx, videoID)
		if err != nil {
			return withStatus(err, pageURL)
		}

		formats := video.Formats.WithAudioChannels()
		if len(formats) == 0 {
			return retrylimit.Fatal(ErrNoAudioFormats)
		}
		link, err := e.client.GetStreamURLContext(ctx, video, &formats[0])
		if err != nil {
			return fmt.Errorf("get stream URL: %w", withStatus(err, pageURL))
		}

		info = parsers.Info{
			Title:     video.Title,
			Artist:    video.Author,
			StreamURL: link,
			PageURL:   "https://www.youtube.com/watch?v=" + video.ID,
			Duration:  video.Duration,
		}
		if n := len(video.Thumbnails); n > 0 {
			info.Thumbnail = video.Thumbnails[n-1].URL
		}
		return nil
	}, e.limiter, maxAttempts)
	if err != nil {
		return parsers.Info{}, fmt.Errorf("kkdai %s: %w", videoID, err)
	}
	return info, nil
}

// withStatus exposes YouTube's unexpected status codes to the retry loop.
func withStatus(err error, pageURL string) error {
	var code youtube.ErrUnexpectedStatusCode
	if !errors.As(err, &code) {
		return err
	}
	return fmt.Errorf("%w: %w", &retrylimit.StatusError{Code: int(code), URL: pageURL}, err)
}

// NewHTTPClient returns an http.Client that dials through proxyStr. An empty
// or unusable proxy yields a direct client.
func NewHTTPClient(proxyStr string) *http.Client {
	direct := &http.Client{Timeout: 15 * time.Second}
	if proxyStr == "" {
		return direct
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Printf("[WARN] [kkdai] Invalid proxy %q: %v", proxyStr, err)
		return direct
	}

	var transport *http.Transport
	switch proxyURL.Scheme {
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	case "socks5", "socks4":
		// socks4 is registered with proxy.FromURL by go-socks4's init.
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[WARN] [kkdai] %s dialer error: %v", proxyURL.Scheme, err)
			return direct
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	default:
		log.Printf("[WARN] [kkdai] Unsupported proxy scheme %q, going direct", proxyURL.Scheme)
		return direct
	}

	log.Printf("[INFO] [kkdai] Using %s proxy %s", proxyURL.Scheme, proxyURL.Host)
	return &http.Client{Timeout: 15 * time.Second, Transport: transport}
}
