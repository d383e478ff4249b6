package logging

import (
	"context"
	"errors"
	"log/slog"
)

// ContextProvider returns attributes computed when a record is handled.
type ContextProvider func() []slog.Attr

// RunHandler stamps every record with the provider's attributes and hands it
// to each sink that accepts its level. Nil sinks are dropped.
type RunHandler struct {
	sinks    []slog.Handler
	provider ContextProvider
}

// NewRunHandler creates a RunHandler. provider may be nil.
func NewRunHandler(provider ContextProvider, sinks ...slog.Handler) *RunHandler {
	h := &RunHandler{provider: provider}
	for _, s := range sinks {
		if s != nil {
			h.sinks = append(h.sinks, s)
		}
	}
	return h
}

func (h *RunHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to every enabled sink. A failing sink does not stop the
// rest; failures come back joined.
func (h *RunHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r = r.Clone()
		r.AddAttrs(h.provider()...)
	}

	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *RunHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *RunHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *RunHandler) derive(f func(slog.Handler) slog.Handler) *RunHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = f(s)
	}
	return &RunHandler{sinks: sinks, provider: h.provider}
}
