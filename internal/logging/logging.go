// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects the level and destination of the log.
type Options struct {
	Level string
	// File receives the log while the terminal UI owns the screen. Empty
	// means DefaultFile().
	File string
	// Headless sends the log to stderr instead of a file.
	Headless bool
	// Verbose forces debug level.
	Verbose bool
}

// DefaultFile returns $XDG_STATE_HOME/rclaunch/rclaunch.log, falling back to
// ~/.local/state.
func DefaultFile() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join(os.TempDir(), "rclaunch.log")
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "rclaunch", "rclaunch.log")
}

// ParseLevel accepts logrus level names; an empty name means info.
func ParseLevel(name string) (logrus.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

// Setup applies opts to the standard logger. The returned closer releases the
// log file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	return setup(logrus.StandardLogger(), opts, os.Stderr)
}

func setup(logger *logrus.Logger, opts Options, stderr io.Writer) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   !opts.Headless,
	})

	if opts.Headless {
		logger.SetOutput(stderr)
		return nopCloser{}, nil
	}

	path := opts.File
	if path == "" {
		path = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
