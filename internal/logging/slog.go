package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// consoleOut is where console records go; tests swap it.
var consoleOut io.Writer = os.Stderr

// SlogManager owns the slog logger of a run.
type SlogManager struct {
	logger *slog.Logger
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup logs to stderr and, if file is non-nil, to file as well. provider
// may add attributes to every record; nil disables it.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	handlers := []slog.Handler{slog.NewTextHandler(consoleOut, handlerOpts)}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	m.logger = slog.New(NewRunHandler(provider, handlers...))
	m.logger.Debug("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Elapsed returns a ContextProvider stamping records with the time since start.
func Elapsed(start time.Time) ContextProvider {
	return func() []slog.Attr {
		return []slog.Attr{slog.Duration("elapsed", time.Since(start).Round(time.Millisecond))}
	}
}
