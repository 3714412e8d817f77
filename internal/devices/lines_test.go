package devices

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *lineReader, n int) []string {
	t.Helper()
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, err := r.ReadLine()
		require.NoError(t, err, "line %d", i)
		lines = append(lines, line)
	}
	return lines
}

func TestLineReader_Terminators(t *testing.T) {
	port := &fakePort{chunks: []string{"lf\ncrlf\r\ncr\rlast\n"}}
	r := newLineReader(port, time.Second, nil)

	assert.Equal(t, []string{"lf", "crlf", "cr", "last"}, readAll(t, r, 4))
}

func TestLineReader_KeepsSurroundingSpaces(t *testing.T) {
	port := &fakePort{chunks: []string{"  12.345 kg \r\n"}}
	r := newLineReader(port, time.Second, nil)

	assert.Equal(t, []string{"  12.345 kg "}, readAll(t, r, 1))
}

func TestLineReader_LineSplitAcrossReads(t *testing.T) {
	port := &fakePort{chunks: []string{"  12.", "345", " kg\r", "\nnext\n"}}
	r := newLineReader(port, time.Second, nil)

	assert.Equal(t, []string{"  12.345 kg", "next"}, readAll(t, r, 2))
}

func TestLineReader_CRThenLFInNextRead(t *testing.T) {
	port := &fakePort{chunks: []string{"a\r", "\n", "b\n"}}
	r := newLineReader(port, time.Second, nil)

	assert.Equal(t, []string{"a", "b"}, readAll(t, r, 2))
}

func TestLineReader_EmptyLines(t *testing.T) {
	port := &fakePort{chunks: []string{"\n\nx\n"}}
	r := newLineReader(port, time.Second, nil)

	assert.Equal(t, []string{"", "", "x"}, readAll(t, r, 3))
}

func TestLineReader_TimeoutWhenNoData(t *testing.T) {
	port := &fakePort{}
	r := newLineReader(port, time.Second, nil)

	_, err := r.ReadLine()
	require.ErrorIs(t, err, ErrReadTimeout)
	assert.Equal(t, CategoryTimeout, Classify(err))
}

func TestLineReader_TimeoutWithoutTerminator(t *testing.T) {
	clock := newFakeClock()
	port := &fakePort{
		chunks:   []string{"1", "2", "3", "4", "5"},
		readHook: func() { clock.Sleep(400 * time.Millisecond) },
	}
	r := newLineReader(port, time.Second, clock.Now)

	_, err := r.ReadLine()
	require.ErrorIs(t, err, ErrReadTimeout)
	assert.Equal(t, 3, port.reads)
}

func TestLineReader_EOF(t *testing.T) {
	port := &fakePort{chunks: []string{"partial"}, tailErr: io.EOF}
	r := newLineReader(port, time.Second, nil)

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "partial", line)

	_, err = r.ReadLine()
	require.ErrorIs(t, err, io.EOF)
}
