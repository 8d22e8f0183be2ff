package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/keshon/beatbob/internal/music/parsers/ffmpeg"
)

// VoiceSender delivers opus packets to a voice connection.
type VoiceSender interface {
	SendOpus(ctx context.Context, packet []byte) error
	Speaking(speaking bool) error
}

// Sink plays one PCM stream into a VoiceSender. It implements player.Sink.
type Sink struct {
	cancel context.CancelFunc
	volume atomic.Uint64 // math.Float64bits
	active atomic.Bool

	mu     sync.Mutex
	paused bool
	resume chan struct{}

	done chan struct{}
	err  error
}

func newSink(cancel context.CancelFunc, volume float64) *Sink {
	s := &Sink{cancel: cancel, done: make(chan struct{})}
	s.SetVolume(volume)
	s.active.Store(true)
	return s
}

func (s *Sink) SetVolume(v float64) {
	v = math.Max(0, math.Min(1, v))
	s.volume.Store(math.Float64bits(v))
}

func (s *Sink) Volume() float64 {
	return math.Float64frombits(s.volume.Load())
}

func (s *Sink) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || !s.active.Load() {
		return false
	}
	s.paused = true
	s.resume = make(chan struct{})
	return true
}

func (s *Sink) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused {
		return false
	}
	s.paused = false
	close(s.resume)
	return true
}

func (s *Sink) Stop() { s.cancel() }

func (s *Sink) IsActive() bool { return s.active.Load() }

func (s *Sink) Done() <-chan struct{} { return s.done }

// Err is only meaningful after Done is closed.
func (s *Sink) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Sink) run(ctx context.Context, src io.ReadCloser, enc Encoder, sender VoiceSender) {
	defer close(s.done)
	defer s.active.Store(false)
	defer src.Close()

	_ = sender.Speaking(true)
	defer func() { _ = sender.Speaking(false) }()

	pcm := make([]byte, ffmpeg.FrameSize*ffmpeg.Channels*2)
	samples := make([]int16, ffmpeg.FrameSize*ffmpeg.Channels)

	for {
		if !s.wait(ctx) {
			return
		}

		if _, err := io.ReadFull(src, pcm); err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.err = fmt.Errorf("read error: %w", err)
			}
			return
		}

		scale(pcm, samples, s.Volume())

		packet, err := enc.Encode(samples, ffmpeg.FrameSize, maxOpusBytes)
		if err != nil {
			s.err = fmt.Errorf("encode error: %w", err)
			return
		}

		if err := sender.SendOpus(ctx, packet); err != nil {
			if ctx.Err() == nil {
				s.err = fmt.Errorf("send error: %w", err)
			}
			return
		}
	}
}

// wait blocks while paused. It reports false once the sink is stopped.
func (s *Sink) wait(ctx context.Context) bool {
	s.mu.Lock()
	paused, resume := s.paused, s.resume
	s.mu.Unlock()

	if paused {
		select {
		case <-resume:
		case <-ctx.Done():
			return false
		}
	}
	return ctx.Err() == nil
}

// scale decodes little-endian PCM into samples, applying volume.
func scale(pcm []byte, samples []int16, volume float64) {
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		if volume >= 1 {
			samples[i] = v
			continue
		}
		samples[i] = int16(math.Round(float64(v) * volume))
	}
}
