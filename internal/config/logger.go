package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/a1s/tabula/internal/config/data"
)

// NewLogger builds a text logger at the given level. An empty file logs to
// stderr. The returned closer releases the log file.
func NewLogger(level, file string) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		if err := data.EnsureFullPath(file, 0700); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %q: %w", file, err)
		}
		w, closer = f, f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
