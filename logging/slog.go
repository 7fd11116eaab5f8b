package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewAppLogger creates the application-level structured logger. It writes to
// stderr so that test output and report summaries keep stdout to themselves.
func NewAppLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewNop returns a structured logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CaptureHandler is a slog.Handler that flattens each record into a single
// line on a Printf-style Logger. The request layer logs structured records;
// routing them through a CapturingLogger attaches them to test output.
type CaptureHandler struct {
	target Logger
	attrs  []slog.Attr
}

func NewCaptureHandler(target Logger) *CaptureHandler {
	return &CaptureHandler{target: target}
}

func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *CaptureHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	writeAttr := func(a slog.Attr) {
		sb.WriteString(" ")
		sb.WriteString(a.Key)
		sb.WriteString("=")
		sb.WriteString(a.Value.String())
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(a)
		return true
	})
	h.target.Printf("%s", sb.String())
	return nil
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &CaptureHandler{target: h.target, attrs: merged}
}

func (h *CaptureHandler) WithGroup(name string) slog.Handler {
	// Groups are flattened; the capture output is for humans reading a
	// failed test's log, not for machine parsing.
	return h
}
