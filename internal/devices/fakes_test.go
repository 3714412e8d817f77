package devices

import (
	"bytes"
	"fmt"
	"sync"
	"time"
)

// fakeClock is advanced only by Sleep.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time        { return c.t }
func (c *fakeClock) Sleep(d time.Duration) { c.t = c.t.Add(d) }

type event struct {
	kind string
	at   time.Time
	data string
}

// fakePort serves chunks in order; once they run out every Read behaves like
// an elapsed read timeout, or returns tailErr when set.
type fakePort struct {
	chunks  []string
	tailErr error

	resetErr error
	writeErr error
	closeErr error
	readHook func()

	now     func() time.Time
	events  []event
	written bytes.Buffer
	reads   int
	writes  int
	closes  int
}

func (p *fakePort) record(kind, data string) {
	at := time.Now()
	if p.now != nil {
		at = p.now()
	}
	p.events = append(p.events, event{kind: kind, at: at, data: data})
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.reads++
	p.record("read", "")
	if p.readHook != nil {
		p.readHook()
	}

	if len(p.chunks) == 0 {
		return 0, p.tailErr
	}

	n := copy(b, p.chunks[0])
	if n < len(p.chunks[0]) {
		p.chunks[0] = p.chunks[0][n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writes++
	p.record("write", string(b))
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) ResetInputBuffer() error {
	p.record("reset", "")
	return p.resetErr
}

func (p *fakePort) Drain() error {
	p.record("drain", "")
	return nil
}

func (p *fakePort) Close() error {
	p.closes++
	p.record("close", "")
	return p.closeErr
}

func (p *fakePort) firstEvent(kind string) (event, bool) {
	for _, e := range p.events {
		if e.kind == kind {
			return e, true
		}
	}
	return event{}, false
}

// fakeTransport counts successful opens so tests can compare them with
// closes on the port it hands out.
type fakeTransport struct {
	port    *fakePort
	openErr error

	opens    int
	settings []PortSettings
}

func (t *fakeTransport) Open(settings PortSettings) (Port, error) {
	t.settings = append(t.settings, settings)
	if t.openErr != nil {
		return nil, t.openErr
	}
	t.opens++
	return t.port, nil
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.add("INFO", format, args...)
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.add("ERRO", format, args...)
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if len(line) > len(level) && line[:len(level)] == level {
			n++
		}
	}
	return n
}

type panickingLogger struct{}

func (panickingLogger) Infof(string, ...any)  { panic("log disk full") }
func (panickingLogger) Errorf(string, ...any) { panic("log disk full") }
