package devices

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// lineReader splits a port stream into lines ended by "\n", "\r" or "\r\n".
// Bytes read past a terminator stay buffered for the next call.
type lineReader struct {
	r       io.Reader
	timeout time.Duration
	now     func() time.Time

	buf    []byte
	chunk  []byte
	skipLF bool
}

func newLineReader(r io.Reader, timeout time.Duration, now func() time.Time) *lineReader {
	if now == nil {
		now = time.Now
	}
	return &lineReader{
		r:       r,
		timeout: timeout,
		now:     now,
		chunk:   make([]byte, 256),
	}
}

// ReadLine blocks until a full line is buffered. It fails with ErrReadTimeout
// when a read returns no data or when timeout passes without a terminator.
func (l *lineReader) ReadLine() (string, error) {
	deadline := l.now().Add(l.timeout)

	for {
		if line, ok := l.nextLine(); ok {
			return line, nil
		}

		if l.timeout > 0 && !l.now().Before(deadline) {
			return "", fmt.Errorf("%w: no line terminator within %s", ErrReadTimeout, l.timeout)
		}

		n, err := l.r.Read(l.chunk)
		l.buf = append(l.buf, l.chunk[:n]...)

		if err != nil {
			if line, ok := l.nextLine(); ok {
				return line, nil
			}
			if errors.Is(err, io.EOF) && len(l.buf) > 0 {
				line := string(l.buf)
				l.buf = l.buf[:0]
				return line, nil
			}
			return "", err
		}

		if n == 0 {
			return "", fmt.Errorf("%w: no data within %s", ErrReadTimeout, l.timeout)
		}
	}
}

func (l *lineReader) nextLine() (string, bool) {
	if l.skipLF && len(l.buf) > 0 {
		if l.buf[0] == '\n' {
			l.buf = l.buf[1:]
		}
		l.skipLF = false
	}

	i := bytes.IndexAny(l.buf, "\r\n")
	if i < 0 {
		return "", false
	}

	line := string(l.buf[:i])
	if l.buf[i] == '\r' {
		switch {
		case i+1 == len(l.buf):
			l.skipLF = true
		case l.buf[i+1] == '\n':
			i++
		}
	}
	l.buf = l.buf[i+1:]

	return line, true
}
