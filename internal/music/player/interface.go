package player

import "context"

// Resolver turns a user query into a playable track. It may take seconds and
// is always called off the playback loop. Failures should be *ResolutionError.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Track, error)
}

// Sink is one running playback of one track.
type Sink interface {
	SetVolume(v float64)
	// Pause and Resume report whether they changed anything.
	Pause() bool
	Resume() bool
	// Stop forces completion. It is safe to call more than once.
	Stop()
	IsActive() bool
	// Done is closed exactly once, when playback has ended for any reason.
	Done() <-chan struct{}
	// Err is the reason playback ended, nil on natural end or Stop.
	Err() error
}

// SinkFactory starts playback of a track into a voice transport.
type SinkFactory interface {
	Start(ctx context.Context, tr Transport, t Track, volume float64) (Sink, error)
}

// Transport is a live voice connection for one guild.
type Transport interface {
	ChannelID() string
	MoveTo(ctx context.Context, channelID string) error
	Disconnect(ctx context.Context) error
	IsConnected() bool
}

// Connector opens voice transports.
type Connector interface {
	Connect(ctx context.Context, guildID, channelID string) (Transport, error)
}

// JobRunner runs named background loops. Starting a name that is already
// running must fail without starting a second copy.
type JobRunner interface {
	StartAsync(name string, runner func(ctx context.Context) error) error
	Stop(name string) error
}
