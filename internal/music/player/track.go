package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnknownTitle is shown for tracks whose resolver did not report a title.
const UnknownTitle = "Unknown title"

// UnknownDuration is the rendering of a track without a known length.
const UnknownDuration = "Unknown"

// Origin tells how a query was classified before resolution.
type Origin string

const (
	OriginDirectLink  Origin = "direct-link"
	OriginCatalogLink Origin = "catalog-link"
	OriginSearch      Origin = "search"
)

// Track is a resolved, playable unit of audio. It is never modified after it
// has been handed to a Queue.
type Track struct {
	ID          string
	Title       string
	Artist      string
	StreamURL   string
	PageURL     string
	Duration    time.Duration // zero when unknown
	RequestedBy string
	Thumbnail   string
	Origin      Origin
	Source      string
}

// NewTrack fills identity and defaults for a freshly resolved track.
func NewTrack(t Track) Track {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		t.Title = UnknownTitle
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return t
}

// Playable reports whether the track carries a stream URL.
func (t Track) Playable() bool {
	return t.StreamURL != ""
}

// DurationText renders the track length as m:ss or h:mm:ss.
func (t Track) DurationText() string {
	return FormatDuration(t.Duration)
}

// FormatDuration renders d as m:ss or h:mm:ss, or UnknownDuration for d <= 0.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return UnknownDuration
	}
	total := int(d.Round(time.Second) / time.Second)
	h, rem := total/3600, total%3600
	m, s := rem/60, rem%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func (t Track) String() string {
	if t.PageURL != "" {
		return fmt.Sprintf("%q (%s)", t.Title, t.PageURL)
	}
	return fmt.Sprintf("%q", t.Title)
}
