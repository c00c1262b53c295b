package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogFile is the log file name under log_dir.
const LogFile = "efswitch.log"

// efHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type efHandler struct {
	w     io.Writer
	opID  string
	level slog.Leveler
	attrs []slog.Attr
}

func (h *efHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *efHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	level := r.Level.String()

	_, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, level, h.opID, r.Message)
	if err != nil {
		return err
	}

	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})

	_, err = fmt.Fprintln(h.w)
	return err
}

func (h *efHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &efHandler{
		w:     h.w,
		opID:  h.opID,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *efHandler) WithGroup(string) slog.Handler { return h }

// parseLevel maps a log_level config value to a slog level. Empty means info.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// newLogger creates a structured logger that writes to both logDir/efswitch.log
// and stderr, dropping records below level.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir, opID string, level slog.Level) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, LogFile)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := io.MultiWriter(f, os.Stderr)
	handler := &efHandler{w: w, opID: opID, level: level}
	return slog.New(handler), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the switcher.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
