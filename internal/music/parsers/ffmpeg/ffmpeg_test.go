package ffmpeg

import (
	"slices"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	args := Args("https://cdn.test/a", 0)
	if slices.Contains(args, "-ss") {
		t.Errorf("Did not expect seek without offset: %v", args)
	}
	i := slices.Index(args, "-i")
	if i < 0 || args[i+1] != "https://cdn.test/a" {
		t.Errorf("Expected input URL after -i, got %v", args)
	}
	if args[len(args)-1] != "pipe:1" {
		t.Errorf("Expected output to stdout, got %v", args)
	}
}

func TestArgsWithSeek(t *testing.T) {
	args := Args("https://cdn.test/a", 90500*time.Millisecond)
	ss := slices.Index(args, "-ss")
	in := slices.Index(args, "-i")
	if ss < 0 || args[ss+1] != "90.50" {
		t.Fatalf("Expected -ss 90.50, got %v", args)
	}
	if ss > in {
		t.Errorf("Expected input seeking before -i, got %v", args)
	}
}
