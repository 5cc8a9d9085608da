package log

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetDebugLogger(t *testing.T) {
	t.Helper()

	debug.mu.Lock()
	debug.closeFileLocked()
	debug.sink = nil
	debug.buffer = nil
	debug.discard = false
	debug.mu.Unlock()

	t.Cleanup(func() {
		debug.mu.Lock()
		debug.closeFileLocked()
		debug.sink = nil
		debug.buffer = nil
		debug.discard = false
		debug.mu.Unlock()
	})
}

func TestBufferedLinesFlushToFile(t *testing.T) {
	resetDebugLogger(t)

	Printf("before %s", "file")
	logPath := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(logPath))
	Println("after file")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath) //nolint:gosec
	require.NoError(t, err)
	assert.Contains(t, string(data), "before file")
	assert.Contains(t, string(data), "after file")
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	resetDebugLogger(t)

	Printf("buffered")
	logPath := filepath.Join(t.TempDir(), "missing", "dir", "debug.log")
	require.Error(t, SetFile(logPath))

	debug.mu.Lock()
	defer debug.mu.Unlock()
	assert.True(t, debug.discard)
	assert.Empty(t, debug.buffer)
}

func TestSetFileEmptyDiscards(t *testing.T) {
	resetDebugLogger(t)

	Printf("dropped")
	require.NoError(t, SetFile(""))
	Printf("also dropped")

	debug.mu.Lock()
	defer debug.mu.Unlock()
	assert.Empty(t, debug.buffer)
}

func TestSetOutputReceivesBufferAndNewLines(t *testing.T) {
	resetDebugLogger(t)

	Printf("early")
	var buf bytes.Buffer
	SetOutput(&buf)
	Printf("late")

	assert.Contains(t, buf.String(), "early")
	assert.Contains(t, buf.String(), "late")
}

func TestCloseWithoutFile(t *testing.T) {
	resetDebugLogger(t)
	assert.NoError(t, Close())
}
