// Package logging routes the standard logger to a colored console and a
// rotating log file.
package logging

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileName = "beatbob.log"

var tagColors = map[string]*color.Color{
	"[INFO]":  color.New(color.FgHiBlack),
	"[WARN]":  color.New(color.FgHiYellow),
	"[ERR]":   color.New(color.FgHiRed),
	"[DEBUG]": color.New(color.FgHiMagenta),
}

// Writer fans log lines out to the console and a file. Lines tagged [DEBUG]
// are dropped unless Debug is set.
type Writer struct {
	Console io.Writer
	File    io.Writer
	Debug   bool

	mu sync.Mutex
}

func (w *Writer) Write(p []byte) (int, error) {
	if !w.Debug && bytes.Contains(p, []byte("[DEBUG]")) {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.File != nil {
		if _, err := w.File.Write(p); err != nil {
			return 0, err
		}
	}
	if w.Console != nil {
		if _, err := w.Console.Write(colorize(p)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func colorize(p []byte) []byte {
	for tag, c := range tagColors {
		if i := bytes.Index(p, []byte(tag)); i >= 0 {
			var out bytes.Buffer
			out.Write(p[:i])
			out.WriteString(c.Sprint(tag))
			out.Write(p[i+len(tag):])
			return out.Bytes()
		}
	}
	return p
}

// Setup points the standard logger at the console and dir/beatbob.log. The
// returned closer flushes the file.
func Setup(dir string, debug bool) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, fileName),
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}

	log.SetOutput(&Writer{Console: color.Output, File: file, Debug: debug})
	log.SetFlags(log.LstdFlags)
	return file, nil
}
