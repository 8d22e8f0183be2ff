// Package parsers turns a media page URL into a direct audio stream URL plus
// whatever metadata the extractor can see.
package parsers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrNoExtractor = errors.New("no extractor configured")

// Info is what an extractor learned about one media page.
type Info struct {
	Title     string
	Artist    string
	StreamURL string
	PageURL   string
	Thumbnail string
	Duration  time.Duration
}

// Extractor resolves a page URL to Info.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, pageURL string) (Info, error)
}

// Chain tries extractors in order and returns the first result with a stream
// URL.
type Chain []Extractor

func (c Chain) Name() string {
	names := make([]string, 0, len(c))
	for _, e := range c {
		names = append(names, e.Name())
	}
	return strings.Join(names, ">")
}

func (c Chain) Extract(ctx context.Context, pageURL string) (Info, error) {
	if len(c) == 0 {
		return Info{}, ErrNoExtractor
	}

	var errs []error
	for _, e := range c {
		info, err := e.Extract(ctx, pageURL)
		if err == nil && info.StreamURL != "" {
			return info, nil
		}
		if err == nil {
			err = errors.New("no stream URL returned")
		}
		log.Printf("[Parser] %s failed for %s: %v", e.Name(), pageURL, err)
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return Info{}, errors.Join(errs...)
}
