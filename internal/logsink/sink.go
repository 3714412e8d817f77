// Package logsink writes the per-session scale log: one append-only file per
// process, lines shaped "<timestamp> - INFO|ERRO - <message>".
package logsink

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

type Sink struct {
	logger *log.Logger
	now    func() time.Time
	path   string

	mu   sync.Mutex
	last time.Time
}

// New writes to w. now may be nil.
func New(w io.Writer, now func() time.Time) *Sink {
	if now == nil {
		now = time.Now
	}
	return &Sink{
		logger: log.New(w, "", 0),
		now:    now,
	}
}

// FileName derives the session log name from the process start time.
func FileName(start time.Time) string {
	return fmt.Sprintf("log_%s.txt", start.Format("2006-01-02_15-04-05"))
}

// Open creates dir if needed and appends to dir/FileName(start). Lines are
// mirrored to extra writers such as os.Stderr.
func Open(dir string, start time.Time, extra ...io.Writer) (*Sink, func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(dir, FileName(start))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	w := io.MultiWriter(append([]io.Writer{f}, extra...)...)

	sink := New(w, nil)
	sink.path = path

	return sink, func() {
		_ = f.Close()
	}, nil
}

// Path is the log file location, empty for sinks made with New.
func (s *Sink) Path() string {
	return s.path
}

func (s *Sink) Infof(format string, args ...any) {
	s.write("INFO", format, args...)
}

func (s *Sink) Errorf(format string, args ...any) {
	s.write("ERRO", format, args...)
}

func (s *Sink) write(level string, format string, args ...any) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	s.mu.Lock()
	defer s.mu.Unlock()

	// Wall clock can step backwards; never let the log go back in time.
	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	s.last = ts

	s.logger.Printf("%s - %s - %s", ts.Format(timestampLayout), level, message)
}
