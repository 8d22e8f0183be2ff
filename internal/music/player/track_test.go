package player

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, UnknownDuration},
		{-time.Second, UnknownDuration},
		{5 * time.Second, "0:05"},
		{3*time.Minute + 7*time.Second, "3:07"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%v): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestNewTrackDefaults(t *testing.T) {
	tr := NewTrack(Track{Title: "  ", StreamURL: "https://cdn.test/a", Duration: -time.Second})
	if tr.ID == "" {
		t.Errorf("Expected an ID")
	}
	if tr.Title != UnknownTitle {
		t.Errorf("Expected %q, got %q", UnknownTitle, tr.Title)
	}
	if tr.Duration != 0 {
		t.Errorf("Expected zero duration, got %v", tr.Duration)
	}
	if !tr.Playable() {
		t.Errorf("Expected track with stream URL to be playable")
	}

	again := NewTrack(tr)
	if again.ID != tr.ID {
		t.Errorf("NewTrack must keep an existing ID")
	}
}
