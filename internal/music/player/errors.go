package player

import (
	"errors"
	"fmt"
)

var (
	ErrNoTrackPlaying = errors.New("no track is currently playing")
	ErrNotConnected   = errors.New("not connected to a voice channel")
	ErrClosed         = errors.New("player is closed")
)

// ResolutionError reports that a query could not be turned into a playable
// track. The queue is left untouched when it is returned.
type ResolutionError struct {
	Query  string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Reason == "" && e.Err != nil {
		return fmt.Sprintf("cannot resolve %q: %v", e.Query, e.Err)
	}
	return fmt.Sprintf("cannot resolve %q: %s", e.Query, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// NewResolutionError builds a ResolutionError with a human readable reason.
func NewResolutionError(query, reason string, err error) *ResolutionError {
	return &ResolutionError{Query: query, Reason: reason, Err: err}
}

// TransportError reports a failed voice connection operation. The engine
// stays usable and the caller may retry.
type TransportError struct {
	Op        string
	ChannelID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("voice %s %s: %v", e.Op, e.ChannelID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SinkError reports a track that failed to start or broke mid-playback. It
// never escapes a control operation; observers see it in Snapshot.Err.
type SinkError struct {
	Track Track
	Err   error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("playback of %s failed: %v", e.Track, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
