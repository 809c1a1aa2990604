package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// BufferedLogHandler captures log records in memory as text lines. It is
// used by tests that need to check what was logged.
type BufferedLogHandler struct {
	mu     *sync.Mutex
	buffer *bytes.Buffer
	inner  slog.Handler
}

// NewBufferedLogHandler creates a handler with an empty buffer. Pass nil
// opts to capture all levels.
func NewBufferedLogHandler(opts *slog.HandlerOptions) *BufferedLogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}
	buf := &bytes.Buffer{}
	return &BufferedLogHandler{
		mu:     &sync.Mutex{},
		buffer: buf,
		inner:  slog.NewTextHandler(buf, opts),
	}
}

// Enabled implements slog.Handler.
func (h *BufferedLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *BufferedLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler. The returned handler shares the buffer.
func (h *BufferedLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BufferedLogHandler{mu: h.mu, buffer: h.buffer, inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler. The returned handler shares the buffer.
func (h *BufferedLogHandler) WithGroup(name string) slog.Handler {
	return &BufferedLogHandler{mu: h.mu, buffer: h.buffer, inner: h.inner.WithGroup(name)}
}

// String returns everything captured so far.
func (h *BufferedLogHandler) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffer.String()
}

// Contains reports whether the captured output contains s.
func (h *BufferedLogHandler) Contains(s string) bool {
	return strings.Contains(h.String(), s)
}
