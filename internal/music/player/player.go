package player

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/keshon/beatbob/pkg/jobmgr"
)

// DefaultVolume is the volume of a new engine when none is configured.
const DefaultVolume = 0.8

const notifyBuffer = 64

// Options wires an engine to its collaborators.
type Options struct {
	Resolver  Resolver
	Sinks     SinkFactory
	Connector Connector
	Observer  Observer // optional
	Jobs      JobRunner

	// DefaultVolume is a percentage; nil selects DefaultVolume.
	DefaultVolume *int
	// ResolveTimeout bounds AddTrack's resolver call; 0 waits forever.
	ResolveTimeout time.Duration
}

// attempt is one dequeued track on its way through the sink.
type attempt struct {
	track   Track
	sink    Sink
	skipped bool
	stopped bool
	ended   chan struct{}
}

// Player is the playback engine of one guild: a queue, at most one active
// sink, and a single loop that feeds the sink from the queue.
type Player struct {
	guildID string
	opts    Options
	queue   *Queue

	mu        sync.Mutex
	state     State
	current   *Track
	volume    float64
	attempt   *attempt
	transport Transport
	attached  chan struct{} // closed while transport != nil
	looping   bool
	closed    bool

	connMu sync.Mutex // serializes Connect/Disconnect/Close

	notes chan Snapshot
}

// New creates an idle engine for guildID. The playback loop starts on the
// first successful Connect.
func New(guildID string, opts Options) *Player {
	if opts.Jobs == nil {
		opts.Jobs = jobmgr.NewManager(context.Background(), nil)
	}
	vol := DefaultVolume
	if opts.DefaultVolume != nil {
		vol = percentToVolume(*opts.DefaultVolume)
	}

	p := &Player{
		guildID:  guildID,
		opts:     opts,
		queue:    NewQueue(),
		volume:   vol,
		attached: make(chan struct{}),
		notes:    make(chan Snapshot, notifyBuffer),
	}
	go p.notifyLoop()
	return p
}

// GuildID returns the guild this engine belongs to.
func (p *Player) GuildID() string { return p.guildID }

// AddTrack resolves query and enqueues the result. Resolution failures come
// back as *ResolutionError and leave the queue unchanged.
func (p *Player) AddTrack(ctx context.Context, query, requestedBy string) (Track, error) {
	if p.isClosed() {
		return Track{}, ErrClosed
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return Track{}, NewResolutionError(query, "empty query", nil)
	}

	if p.opts.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.ResolveTimeout)
		defer cancel()
	}

	log.Printf("[Player] Resolving query | guild=%s query=%q", p.guildID, query)
	t, err := p.opts.Resolver.Resolve(ctx, query)
	if err != nil {
		var re *ResolutionError
		if !errors.As(err, &re) {
			re = NewResolutionError(query, reasonFor(err), err)
		}
		log.Printf("[Player] Failed to resolve | guild=%s query=%q err=%v", p.guildID, query, re)
		return Track{}, re
	}
	if !t.Playable() {
		return Track{}, NewResolutionError(query, "nothing playable found", nil)
	}

	t.RequestedBy = requestedBy
	t = NewTrack(t)
	if err := p.Enqueue(t); err != nil {
		return Track{}, err
	}
	return t, nil
}

// Enqueue appends an already resolved track.
func (p *Player) Enqueue(t Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.queue.Enqueue(t)
	log.Printf("[Player] Added track %s | guild=%s QueueLen=%d", t, p.guildID, p.queue.Len())
	p.emitLocked(StatusAdded, nil)
	return nil
}

// Connect attaches the engine to a voice channel, moving an existing live
// connection or replacing a stale one, and starts the playback loop.
func (p *Player) Connect(ctx context.Context, channelID string) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	tr := p.transport
	p.mu.Unlock()

	switch {
	case tr != nil && tr.IsConnected():
		if tr.ChannelID() != channelID {
			if err := tr.MoveTo(ctx, channelID); err != nil {
				return &TransportError{Op: "move", ChannelID: channelID, Err: err}
			}
			log.Printf("[Player] Moved to voice channel %s | guild=%s", channelID, p.guildID)
		}
	default:
		if tr != nil {
			log.Printf("[Player] Dropping stale voice connection | guild=%s", p.guildID)
			if err := tr.Disconnect(ctx); err != nil {
				log.Printf("[Player] Stale disconnect failed | guild=%s err=%v", p.guildID, err)
			}
			p.mu.Lock()
			p.detachLocked(tr)
			p.mu.Unlock()
		}

		ntr, err := p.opts.Connector.Connect(ctx, p.guildID, channelID)
		if err != nil {
			return &TransportError{Op: "connect", ChannelID: channelID, Err: err}
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = ntr.Disconnect(ctx)
			return ErrClosed
		}
		p.transport = ntr
		close(p.attached)
		p.mu.Unlock()
		log.Printf("[Player] Joined voice channel %s | guild=%s", channelID, p.guildID)
	}

	p.ensureLoop()
	return nil
}

// Disconnect tears down the sink and the voice connection without waiting
// for the sink to drain. The queue and the loop are kept; the loop resumes
// on the next Connect.
func (p *Player) Disconnect(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	p.mu.Lock()
	tr := p.transport
	if tr == nil {
		p.mu.Unlock()
		return nil
	}
	p.detachLocked(tr)
	sink := p.interruptLocked(false)
	p.emitLocked(StatusDisconnected, nil)
	p.mu.Unlock()

	if sink != nil {
		sink.Stop()
	}
	if !tr.IsConnected() {
		return nil
	}
	if err := tr.Disconnect(ctx); err != nil {
		return &TransportError{Op: "disconnect", ChannelID: tr.ChannelID(), Err: err}
	}
	log.Printf("[Player] Disconnected from voice | guild=%s", p.guildID)
	return nil
}

// Pause suspends the active sink. Pausing a paused engine is a no-op.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.attempt
	if a == nil || a.sink == nil || a.skipped {
		return ErrNoTrackPlaying
	}
	if p.state != StatePlaying || !a.sink.Pause() {
		return nil
	}
	p.state = StatePaused
	log.Printf("[Player] Paused %s | guild=%s", a.track, p.guildID)
	p.emitLocked(StatusPaused, nil)
	return nil
}

// Resume continues a paused sink. Resuming a playing engine is a no-op.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.attempt
	if a == nil || a.sink == nil || a.skipped {
		return ErrNoTrackPlaying
	}
	if p.state != StatePaused || !a.sink.Resume() {
		return nil
	}
	p.state = StatePlaying
	log.Printf("[Player] Resumed %s | guild=%s", a.track, p.guildID)
	p.emitLocked(StatusResumed, nil)
	return nil
}

// Skip ends the current track and waits until the loop has let go of it.
// With nothing playing it does nothing.
func (p *Player) Skip(ctx context.Context) error {
	return p.interrupt(ctx, false)
}

// Stop clears the queue, then ends the current track like Skip.
func (p *Player) Stop(ctx context.Context) error {
	return p.interrupt(ctx, true)
}

func (p *Player) interrupt(ctx context.Context, stop bool) error {
	p.mu.Lock()
	if stop {
		if n := p.queue.Clear(); n > 0 {
			log.Printf("[Player] Cleared %d queued track(s) | guild=%s", n, p.guildID)
		}
	}
	a := p.attempt
	if a == nil {
		if stop {
			p.emitLocked(StatusStopped, nil)
		}
		p.mu.Unlock()
		return nil
	}
	sink := p.interruptLocked(stop)
	ended := a.ended
	p.mu.Unlock()

	if sink != nil {
		sink.Stop()
	}

	select {
	case <-ended:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// interruptLocked marks the current attempt as skipped and returns the sink
// that still has to be stopped, or nil if someone already did.
func (p *Player) interruptLocked(stop bool) Sink {
	a := p.attempt
	if a == nil {
		return nil
	}
	if stop {
		a.stopped = true
	}
	if a.skipped {
		return nil
	}
	a.skipped = true
	return a.sink
}

// SetVolume clamps percent to [0,100], stores it for later tracks and applies
// it to the active sink. It returns the stored fraction.
func (p *Player) SetVolume(percent int) float64 {
	v := percentToVolume(percent)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
	if a := p.attempt; a != nil && a.sink != nil {
		a.sink.SetVolume(v)
	}
	log.Printf("[Player] Volume set to %d%% | guild=%s", int(v*100), p.guildID)
	p.emitLocked(StatusVolume, nil)
	return v
}

// Volume returns the stored volume fraction.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// State returns the playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// NowPlaying returns a copy of the current track, or nil.
func (p *Player) NowPlaying() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	t := *p.current
	return &t
}

// QueueSnapshot returns up to n upcoming tracks.
func (p *Player) QueueSnapshot(n int) []Track {
	return p.queue.Peek(n)
}

// QueueLen returns the number of upcoming tracks.
func (p *Player) QueueLen() int {
	return p.queue.Len()
}

// ChannelID returns the voice channel the engine is attached to, or "".
func (p *Player) ChannelID() string {
	p.mu.Lock()
	tr := p.transport
	p.mu.Unlock()
	if tr == nil || !tr.IsConnected() {
		return ""
	}
	return tr.ChannelID()
}

// Snapshot returns the current observable state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked("", nil)
}

// Close stops the loop, the sink and the voice connection for good.
func (p *Player) Close(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	tr := p.transport
	if tr != nil {
		p.detachLocked(tr)
	}
	sink := p.interruptLocked(true)
	p.queue.Clear()
	close(p.notes)
	p.mu.Unlock()

	_ = p.opts.Jobs.Stop(p.loopName())
	if sink != nil {
		sink.Stop()
	}
	if tr != nil && tr.IsConnected() {
		if err := tr.Disconnect(ctx); err != nil {
			return &TransportError{Op: "disconnect", ChannelID: tr.ChannelID(), Err: err}
		}
	}
	log.Printf("[Player] Closed | guild=%s", p.guildID)
	return nil
}

func (p *Player) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Player) loopName() string {
	return "player:" + p.guildID
}

func (p *Player) ensureLoop() {
	p.mu.Lock()
	if p.looping || p.closed {
		p.mu.Unlock()
		return
	}
	p.looping = true
	p.mu.Unlock()

	if err := p.opts.Jobs.StartAsync(p.loopName(), p.run); err != nil {
		log.Printf("[Player] Failed to start playback loop | guild=%s err=%v", p.guildID, err)
		p.mu.Lock()
		p.looping = false
		p.mu.Unlock()
	}
}

// run is the playback loop: take a track, play it to completion, repeat.
func (p *Player) run(ctx context.Context) error {
	log.Printf("[Player] Playback loop started | guild=%s", p.guildID)
	defer func() {
		p.mu.Lock()
		p.looping = false
		p.mu.Unlock()
		log.Printf("[Player] Playback loop exited | guild=%s", p.guildID)
	}()

	for {
		a, tr, err := p.next(ctx)
		if err != nil {
			return nil
		}
		p.play(ctx, tr, a)
	}
}

// next waits for a live transport and a queued track, and registers the
// track as the current attempt under the same lock that Stop clears the
// queue with.
func (p *Player) next(ctx context.Context) (*attempt, Transport, error) {
	for {
		p.mu.Lock()
		tr := p.transport
		if tr == nil {
			wait := p.attached
			p.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}
		if !tr.IsConnected() {
			log.Printf("[Player] Voice connection lost, waiting for a new one | guild=%s", p.guildID)
			p.detachLocked(tr)
			p.mu.Unlock()
			continue
		}
		if t, ok := p.queue.tryDequeue(); ok {
			a := &attempt{track: t, ended: make(chan struct{})}
			p.attempt = a
			p.mu.Unlock()
			return a, tr, nil
		}
		p.mu.Unlock()

		select {
		case <-p.queue.ready:
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		}
	}
}

func (p *Player) play(ctx context.Context, tr Transport, a *attempt) {
	p.mu.Lock()
	vol := p.volume
	p.mu.Unlock()

	log.Printf("[Player] Starting %s | guild=%s volume=%.2f", a.track, p.guildID, vol)
	sink, err := p.opts.Sinks.Start(ctx, tr, a.track, vol)
	if err != nil {
		log.Printf("[Player] Skipping %s, sink failed to start | guild=%s err=%v", a.track, p.guildID, err)
		p.finish(a, &SinkError{Track: a.track, Err: err})
		return
	}

	p.mu.Lock()
	if a.skipped {
		p.mu.Unlock()
		sink.Stop()
		<-sink.Done()
		p.finish(a, nil)
		return
	}
	a.sink = sink
	if p.volume != vol {
		sink.SetVolume(p.volume)
	}
	t := a.track
	p.current = &t
	p.state = StatePlaying
	p.emitLocked(StatusPlaying, nil)
	p.mu.Unlock()

	select {
	case <-sink.Done():
	case <-ctx.Done():
		sink.Stop()
		<-sink.Done()
	}

	var perr error
	if err := sink.Err(); err != nil {
		log.Printf("[Player] Playback of %s ended with error | guild=%s err=%v", a.track, p.guildID, err)
		perr = &SinkError{Track: a.track, Err: err}
	} else {
		log.Printf("[Player] Playback of %s finished | guild=%s", a.track, p.guildID)
	}
	p.finish(a, perr)
}

// finish clears the current track and releases everyone waiting on a.
func (p *Player) finish(a *attempt, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.attempt == a {
		p.attempt = nil
	}
	p.current = nil
	p.state = StateIdle

	switch {
	case err != nil:
		p.emitLocked(StatusError, err)
	case a.stopped:
		p.emitLocked(StatusStopped, nil)
	default:
		p.emitLocked(StatusFinished, nil)
	}
	close(a.ended)
}

func (p *Player) detachLocked(tr Transport) {
	if p.transport != tr || tr == nil {
		return
	}
	p.transport = nil
	p.attached = make(chan struct{})
}

func (p *Player) snapshotLocked(status PlayerStatus, err error) Snapshot {
	s := Snapshot{
		GuildID:  p.guildID,
		Status:   status,
		State:    p.state,
		Volume:   p.volume,
		QueueLen: p.queue.Len(),
		Err:      err,
	}
	if p.current != nil {
		t := *p.current
		s.Track = &t
	}
	return s
}

// emitLocked queues a snapshot for the observer. Snapshots are taken under
// p.mu, so the observer sees them in the order the state changed.
func (p *Player) emitLocked(status PlayerStatus, err error) {
	if p.closed || p.opts.Observer == nil {
		return
	}
	select {
	case p.notes <- p.snapshotLocked(status, err):
	default:
		log.Printf("[Player] Player status signal dropped (channel full) - %s | guild=%s", status, p.guildID)
	}
}

func (p *Player) notifyLoop() {
	for s := range p.notes {
		p.opts.Observer.Notify(s)
	}
}

func percentToVolume(percent int) float64 {
	return float64(min(max(percent, 0), 100)) / 100
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "resolver timed out"
	case errors.Is(err, context.Canceled):
		return "request was cancelled"
	default:
		return err.Error()
	}
}
