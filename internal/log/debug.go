// Package log is the process-wide debug log of lazycommit.
//
// Messages are held in memory until a destination is chosen with SetFile
// (or SetOutput in tests), so that output produced while flags and config
// are still being read is not lost.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

// DebugLogger buffers log lines until a sink is attached.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	sink    io.Writer
	buffer  []byte
	discard bool
}

var (
	debug     = &DebugLogger{}
	stdLogger = log.New(debug, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.discard:
		return len(p), nil
	case l.file != nil:
		n, err := l.file.Write(p)
		_ = l.file.Sync()
		return n, err
	case l.sink != nil:
		return l.sink.Write(p)
	}

	// p may be reused by the caller
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

func (l *DebugLogger) closeFileLocked() {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

// SetFile sends the log to path, creating or appending to it, and flushes
// anything buffered so far. An empty path drops the buffer and all later output.
func SetFile(path string) error {
	debug.mu.Lock()
	defer debug.mu.Unlock()

	debug.closeFileLocked()
	debug.sink = nil

	if path == "" {
		debug.discard = true
		debug.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		debug.discard = true
		debug.buffer = nil
		return err
	}

	debug.file = f
	debug.discard = false
	if len(debug.buffer) > 0 {
		_, _ = f.Write(debug.buffer)
		_ = f.Sync()
		debug.buffer = nil
	}
	return nil
}

// SetOutput sends the log to w (nil restores buffering). Buffered lines are flushed to w.
func SetOutput(w io.Writer) {
	debug.mu.Lock()
	defer debug.mu.Unlock()

	debug.closeFileLocked()
	debug.sink = w
	debug.discard = false
	if w != nil && len(debug.buffer) > 0 {
		_, _ = w.Write(debug.buffer)
		debug.buffer = nil
	}
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the log file if one is open.
func Close() error {
	debug.mu.Lock()
	defer debug.mu.Unlock()

	if debug.file == nil {
		return nil
	}
	err := debug.file.Close()
	debug.file = nil
	return err
}
