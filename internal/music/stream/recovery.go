package stream

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers/ffmpeg"
)

const (
	maxRecoveryAttempts = 3
	// endSlack is how close to the known duration an EOF counts as the
	// natural end of the track.
	endSlack = 3 * time.Second
)

const bytesPerSecond = ffmpeg.SampleRate * ffmpeg.Channels * 2

// Decoder opens a PCM stream for a URL at an offset.
type Decoder interface {
	Open(ctx context.Context, url string, seek time.Duration) (io.ReadCloser, error)
}

// RecoveryStream reopens the decoder at the current position when a stream
// ends before its known duration. Live streams without a duration are
// reopened on any EOF.
type RecoveryStream struct {
	ctx      context.Context
	decoder  Decoder
	url      string
	duration time.Duration

	stream  io.ReadCloser
	read    int64
	retries int
}

func NewRecoveryStream(ctx context.Context, decoder Decoder, url string, duration time.Duration) *RecoveryStream {
	return &RecoveryStream{ctx: ctx, decoder: decoder, url: url, duration: duration}
}

// Open starts the first decoder.
func (rs *RecoveryStream) Open() error {
	s, err := rs.decoder.Open(rs.ctx, rs.url, 0)
	if err != nil {
		return err
	}
	rs.stream = s
	return nil
}

// Position is the playback offset implied by the bytes read so far.
func (rs *RecoveryStream) Position() time.Duration {
	secs, rem := rs.read/bytesPerSecond, rs.read%bytesPerSecond
	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/bytesPerSecond
}

func (rs *RecoveryStream) Read(p []byte) (int, error) {
	if rs.stream == nil {
		return 0, errors.New("stream not opened")
	}

	n, err := rs.stream.Read(p)
	rs.read += int64(n)
	if err == io.EOF && n == 0 && rs.premature() {
		return rs.recover(p)
	}
	return n, err
}

func (rs *RecoveryStream) premature() bool {
	if rs.ctx.Err() != nil {
		return false
	}
	if rs.duration <= 0 {
		return true
	}
	return rs.Position()+endSlack < rs.duration
}

func (rs *RecoveryStream) recover(p []byte) (int, error) {
	if rs.retries >= maxRecoveryAttempts {
		log.Printf("[Stream] Max recovery attempts reached for %s", rs.url)
		return 0, io.EOF
	}
	rs.retries++

	pos := rs.Position()
	log.Printf("[Stream] Stream ended early at %s, reopening (attempt %d)", pos.Round(time.Second), rs.retries)

	_ = rs.stream.Close()
	s, err := rs.decoder.Open(rs.ctx, rs.url, pos)
	if err != nil {
		log.Printf("[Stream] Recovery failed: %v", err)
		rs.stream = io.NopCloser(eofReader{})
		return 0, io.EOF
	}
	rs.stream = s
	return rs.Read(p)
}

func (rs *RecoveryStream) Close() error {
	if rs.stream != nil {
		return rs.stream.Close()
	}
	return nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
