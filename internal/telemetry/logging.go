package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// redactedKeys never reach the log output; bearer tokens travel through contexts and headers.
var redactedKeys = map[string]bool{
	"authorization": true,
	"token":         true,
	"password":      true,
}

// ParseLevel maps LOG_LEVEL values onto slog levels. Unknown values mean info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger writes JSON records to w, adding trace_id and span_id when the context carries a span.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	baseHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if redactedKeys[strings.ToLower(a.Key)] {
				return slog.String(a.Key, "[REDACTED]")
			}
			return a
		},
	})

	return slog.New(&traceHandler{root: baseHandler, handler: baseHandler})
}

// scope is one With or WithGroup call, kept so trace ids can be placed ahead of them.
type scope struct {
	group string
	attrs []slog.Attr
}

func (s scope) apply(h slog.Handler) slog.Handler {
	if s.group != "" {
		return h.WithGroup(s.group)
	}
	return h.WithAttrs(s.attrs)
}

// traceHandler puts trace_id and span_id at the top level of every record, outside
// any group the logger has opened.
type traceHandler struct {
	root    slog.Handler
	handler slog.Handler
	scopes  []scope
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	traceID := TraceID(ctx)
	if traceID == "" {
		return h.handler.Handle(ctx, r)
	}

	handler := h.root.WithAttrs([]slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("span_id", SpanID(ctx)),
	})
	for _, s := range h.scopes {
		handler = s.apply(handler)
	}
	return handler.Handle(ctx, r)
}

func (h *traceHandler) with(s scope) *traceHandler {
	return &traceHandler{
		root:    h.root,
		handler: s.apply(h.handler),
		scopes:  append(h.scopes[:len(h.scopes):len(h.scopes)], s),
	}
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(scope{attrs: attrs})
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(scope{group: name})
}
