// Package ffmpeg decodes any stream URL ffmpeg understands into raw
// s16le PCM suitable for opus encoding.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

const (
	Channels   = 2
	SampleRate = 48000
	FrameSize  = 960 // 20ms at 48kHz
)

// Decoder runs one ffmpeg process per opened stream.
type Decoder struct {
	// Path is the ffmpeg binary, "ffmpeg" when empty.
	Path string
}

func New(path string) *Decoder {
	return &Decoder{Path: path}
}

// Args builds the ffmpeg command line for url starting at seek.
func Args(url string, seek time.Duration) []string {
	args := []string{
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
	}
	if seek > 0 {
		args = append(args, "-ss", strconv.FormatFloat(seek.Seconds(), 'f', 2, 64))
	}
	return append(args,
		"-i", url,
		"-vn",
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-loglevel", "warning",
		"pipe:1",
	)
}

// Open starts decoding url. Closing the returned reader kills the process.
func (d *Decoder) Open(ctx context.Context, url string, seek time.Duration) (io.ReadCloser, error) {
	bin := d.Path
	if bin == "" {
		bin = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, bin, Args(url, seek)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}

	return &process{cmd: cmd, out: out}, nil
}

type process struct {
	cmd  *exec.Cmd
	out  io.ReadCloser
	once sync.Once
	err  error
}

func (p *process) Read(b []byte) (int, error) {
	return p.out.Read(b)
}

func (p *process) Close() error {
	p.once.Do(func() {
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		err := p.cmd.Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			log.Printf("[DEBUG] ffmpeg wait: %v", err)
			p.err = err
		}
	})
	return p.err
}
