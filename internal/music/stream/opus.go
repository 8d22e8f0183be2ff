package stream

import (
	"fmt"

	"github.com/keshon/beatbob/internal/music/parsers/ffmpeg"
	"layeh.com/gopus"
)

const maxOpusBytes = ffmpeg.FrameSize * ffmpeg.Channels * 2

// Encoder turns one frame of interleaved PCM into an opus packet.
type Encoder interface {
	Encode(pcm []int16, frameSize, maxDataBytes int) ([]byte, error)
}

// NewOpusEncoder returns a gopus encoder in audio mode.
func NewOpusEncoder() (Encoder, error) {
	enc, err := gopus.NewEncoder(ffmpeg.SampleRate, ffmpeg.Channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("encoder error: %w", err)
	}
	return enc, nil
}
