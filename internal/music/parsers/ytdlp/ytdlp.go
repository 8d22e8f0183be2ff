package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/pkg/retrylimit"

	"github.com/lrstanley/go-ytdlp"
)

const (
	audioFormat = "bestaudio[ext=webm]/bestaudio/best"
	printFormat = "%(title)s\t%(url)s\t%(webpage_url)s\t%(duration)s\t%(thumbnail)s\t%(uploader)s"
	maxAttempts = 3
)

var ErrEmptyOutput = errors.New("yt-dlp returned no output")

var httpErrorPattern = regexp.MustCompile(`HTTP Error (\d{3})`)

// Extractor runs the yt-dlp binary through go-ytdlp.
type Extractor struct {
	proxy   string
	limiter *retrylimit.AdaptiveLimiter
}

// New returns an Extractor. proxy may be empty; limiter may be nil.
func New(proxy string, limiter *retrylimit.AdaptiveLimiter) *Extractor {
	return &Extractor{proxy: proxy, limiter: limiter}
}

func (e *Extractor) Name() string { return "ytdlp" }

func (e *Extractor) Extract(ctx context.Context, pageURL string) (parsers.Info, error) {
	var info parsers.Info
	err := retrylimit.WithRetryMax(ctx, func() error {
		out, err := e.run(ctx, pageURL)
		if err != nil {
			return err
		}
		info, err = parsePrint(out)
		if err != nil {
			return retrylimit.Fatal(err)
		}
		return nil
	}, e.limiter, maxAttempts)
	if err != nil {
		return parsers.Info{}, fmt.Errorf("yt-dlp %s: %w", pageURL, err)
	}
	if info.PageURL == "" {
		info.PageURL = pageURL
	}
	return info, nil
}

func (e *Extractor) run(ctx context.Context, pageURL string) (string, error) {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		Format(audioFormat).
		Print(printFormat)
	if e.proxy != "" {
		cmd.Proxy(e.proxy)
	}

	res, err := cmd.Run(ctx, "--skip-download", "--no-playlist", "--socket-timeout", "30", pageURL)
	if err != nil {
		if res != nil {
			return "", withStatus(err, pageURL, res.Stderr)
		}
		return "", err
	}
	return res.Stdout, nil
}

// withStatus attaches the HTTP status yt-dlp reported on stderr, so the
// retry loop can slow the limiter down on 429 and 5xx answers.
func withStatus(err error, pageURL, stderr string) error {
	m := httpErrorPattern.FindStringSubmatch(stderr)
	if m == nil {
		return err
	}
	code, _ := strconv.Atoi(m[1])
	return fmt.Errorf("%w: %w", &retrylimit.StatusError{Code: code, URL: pageURL}, err)
}

// parsePrint reads the first line produced by printFormat.
func parsePrint(out string) (parsers.Info, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	if line == "" {
		return parsers.Info{}, ErrEmptyOutput
	}

	fields := strings.Split(line, "\t")
	for len(fields) < 6 {
		fields = append(fields, "")
	}
	for i, f := range fields {
		if f == "NA" {
			fields[i] = ""
		}
	}

	info := parsers.Info{
		Title:     fields[0],
		StreamURL: fields[1],
		PageURL:   fields[2],
		Duration:  parseSeconds(fields[3]),
		Thumbnail: fields[4],
		Artist:    fields[5],
	}
	if info.StreamURL == "" {
		return parsers.Info{}, fmt.Errorf("no stream URL in %q", line)
	}
	return info, nil
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
