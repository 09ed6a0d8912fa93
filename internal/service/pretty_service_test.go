package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logpretty/internal/formatter"
	"logpretty/internal/service"
	"logpretty/internal/style"
)

func newService() service.PrettyService {
	return service.NewPrettyService(formatter.New(style.Plain(), formatter.WithLocation(time.UTC)))
}

func TestPrettyService_Run(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		lines    int64
	}{
		{
			name:     "Records And Plain Text Keep Order",
			input:    "{\"level\":30,\"time\":0,\"msg\":\"one\"}\nplain\n{\"level\":40,\"time\":0,\"msg\":\"two\"}\n",
			expected: "1970-01-01 00:00:00.000  INFO: one\nplain\n1970-01-01 00:00:00.000  WARN: two\n",
			lines:    3,
		},
		{
			name:     "CRLF Terminators",
			input:    "{\"level\":30,\"time\":0,\"msg\":\"one\"}\r\nplain\r\n",
			expected: "1970-01-01 00:00:00.000  INFO: one\nplain\n",
			lines:    2,
		},
		{
			name:     "Final Line Without Terminator",
			input:    "first\nlast",
			expected: "first\nlast\n",
			lines:    2,
		},
		{
			name:     "Empty Lines Are Kept",
			input:    "a\n\n\nb\n",
			expected: "a\n\n\nb\n",
			lines:    4,
		},
		{
			name:     "Empty Input",
			input:    "",
			expected: "",
			lines:    0,
		},
		{
			name:     "Single Newline",
			input:    "\n",
			expected: "\n",
			lines:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			stats, err := newService().Run(context.Background(), strings.NewReader(tt.input), &out)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, tt.lines, stats.Lines)
			assert.Equal(t, int64(len(tt.expected)), stats.BytesWritten)
		})
	}
}

func TestPrettyService_LongLine(t *testing.T) {
	long := strings.Repeat("x", 1<<20)

	var out bytes.Buffer
	_, err := newService().Run(context.Background(), strings.NewReader(long+"\n"), &out)

	require.NoError(t, err)
	assert.Equal(t, long+"\n", out.String())
}

// syncBuffer is written by the service goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestPrettyService_FlushesEachLineWhenIdle(t *testing.T) {
	pr, pw := io.Pipe()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		_, err := newService().Run(context.Background(), pr, out)
		done <- err
	}()

	_, err := pw.Write([]byte("first\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return out.String() == "first\n" }, 2*time.Second, 10*time.Millisecond)

	_, err = pw.Write([]byte("second\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return out.String() == "first\nsecond\n" }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
}

func TestPrettyService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	stats, err := newService().Run(ctx, strings.NewReader("a\nb\n"), &out)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), stats.Lines)
	assert.Empty(t, out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("sink closed") }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device gone") }

func TestPrettyService_Errors(t *testing.T) {
	_, err := newService().Run(context.Background(), strings.NewReader("a\n"), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink closed")

	_, err = newService().Run(context.Background(), failingReader{}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device gone")
}

func TestPrettyService_RunAll(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	missing := filepath.Join(dir, "missing.log")
	require.NoError(t, os.WriteFile(first, []byte("{\"level\":30,\"time\":0,\"msg\":\"one\"}\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("two\n"), 0644))

	var out bytes.Buffer
	stats, err := newService().RunAll(context.Background(), []string{first, missing, second}, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "1970-01-01 00:00:00.000  INFO: one\ntwo\n", out.String())
	assert.Equal(t, 2, stats.Inputs)
	assert.Equal(t, int64(2), stats.Lines)
}

func TestPrettyService_RunAllStopsOnWriteError(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")
	require.NoError(t, os.WriteFile(first, []byte("one\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("two\n"), 0644))

	stats, err := newService().RunAll(context.Background(), []string{first, second}, failingWriter{})

	require.Error(t, err)
	assert.Equal(t, 1, stats.Inputs)
}
