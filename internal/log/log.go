// Package log provides category-scoped structured logging for soundboard.
//
// The TUI owns the terminal, so log output goes to a file and is disabled
// unless Init is called. All functions are safe for concurrent use.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
)

// Category tags a log line with the subsystem that produced it.
type Category string

// Log categories.
const (
	CatConfig Category = "config"
	CatDB     Category = "db"
	CatStore  Category = "store"
	CatAudio  Category = "audio"
	CatRecord Category = "record"
	CatUI     Category = "ui"
	CatWatch  Category = "watch"
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.DiscardHandler)
)

// Init opens (or creates) the log file at path and routes all logging to it.
// The returned function closes the file and restores the discard logger.
func Init(path string, debugEnabled bool) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from flags/config
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	setOutput(f, level)

	return func() error {
		setOutput(nil, level)
		return f.Close()
	}, nil
}

// SetOutput routes logging to w at the given level. A nil writer disables logging.
// Intended for tests and for callers that manage their own writer.
func SetOutput(w io.Writer, level slog.Level) {
	setOutput(w, level)
}

func setOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		logger = slog.New(slog.DiscardHandler)
	} else {
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Info logs at info level.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Warn logs at warn level.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, append([]any{"cat", string(cat)}, args...)...)
}

// Error logs at error level.
func Error(cat Category, msg string, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat)}, args...)...)
}

// ErrorErr logs err at error level with the given message and fields.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	current().Error(msg, append([]any{"cat", string(cat), "error", err}, args...)...)
}

// SafeGo runs fn in a new goroutine, logging and swallowing any panic.
func SafeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				Error(CatConfig, "goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
