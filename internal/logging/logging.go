// Package logging owns the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu            sync.Mutex
	once          sync.Once
	defaultLogger *slog.Logger
)

// ForTestsOnlyResetLogger lets a test call Init again.
func ForTestsOnlyResetLogger() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	defaultLogger = nil
}

// Init builds the global logger. format is "json" or "text"; only the first
// call has any effect.
func Init(level slog.Level, format string, output io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		opts := &slog.HandlerOptions{Level: level}
		var h slog.Handler
		if format == "json" {
			h = slog.NewJSONHandler(output, opts)
		} else {
			h = slog.NewTextHandler(output, opts)
		}
		defaultLogger = slog.New(h)
		slog.SetDefault(defaultLogger)
	})
}

// GetLogger returns the global logger, initialising it to info-level text on
// stderr when Init has not run.
func GetLogger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	})
	return defaultLogger
}
