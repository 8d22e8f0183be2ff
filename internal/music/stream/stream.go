// Package stream plays resolved tracks into a voice connection: ffmpeg
// decodes to PCM, the sink scales volume and waits out pauses, gopus encodes
// and the transport sends.
package stream

import (
	"context"
	"errors"
	"log"

	"github.com/keshon/beatbob/internal/music/parsers/ffmpeg"
	"github.com/keshon/beatbob/internal/music/player"
)

var ErrNoVoiceSender = errors.New("transport cannot send audio")

// Factory implements player.SinkFactory.
type Factory struct {
	Decoder    Decoder
	NewEncoder func() (Encoder, error)
}

// NewFactory returns a Factory that decodes with ffmpeg and encodes with
// gopus.
func NewFactory(decoder Decoder) *Factory {
	if decoder == nil {
		decoder = ffmpeg.New("")
	}
	return &Factory{Decoder: decoder, NewEncoder: NewOpusEncoder}
}

func (f *Factory) Start(ctx context.Context, tr player.Transport, t player.Track, volume float64) (player.Sink, error) {
	sender, ok := tr.(VoiceSender)
	if !ok {
		return nil, ErrNoVoiceSender
	}
	if !tr.IsConnected() {
		return nil, player.ErrNotConnected
	}

	enc, err := f.NewEncoder()
	if err != nil {
		return nil, err
	}

	sctx, cancel := context.WithCancel(ctx)
	src := NewRecoveryStream(sctx, f.Decoder, t.StreamURL, t.Duration)
	if err := src.Open(); err != nil {
		cancel()
		return nil, err
	}

	log.Printf("[Stream] Streaming %s into %s", t, tr.ChannelID())
	s := newSink(cancel, volume)
	go s.run(sctx, src, enc, sender)
	return s, nil
}
