// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// Config controls logger construction.
type Config struct {
	Level slog.Level
	// Stderr receives human-readable logs. Defaults to os.Stderr.
	Stderr io.Writer
	// FilePath, when set, additionally receives JSON logs.
	FilePath string
}

// New builds a logger fanning out to stderr and, optionally, a JSON file.
// The returned close function releases the file.
func New(c Config) (*slog.Logger, func() error, error) {
	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: c.Level}),
	}
	closer := func() error { return nil }

	if c.FilePath != "" {
		f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level:     c.Level,
			AddSource: true,
		}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Init builds a logger with New and installs it as the slog default.
func Init(c Config) (func() error, error) {
	logger, closer, err := New(c)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}
