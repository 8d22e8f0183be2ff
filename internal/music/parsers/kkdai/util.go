package kkdai

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrUnsupportedURL = errors.New("unsupported YouTube URL format")

	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// extractYouTubeID returns the 11 character video ID from watch, short,
// shorts, embed and music URLs.
func extractYouTubeID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrUnsupportedURL
	}

	var id string
	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		case strings.HasPrefix(u.Path, "/live/"):
			id = strings.TrimPrefix(u.Path, "/live/")
		}
	}

	id = strings.Trim(id, "/")
	if !videoIDPattern.MatchString(id) {
		return "", ErrUnsupportedURL
	}
	return id, nil
}
