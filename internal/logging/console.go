package logging

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2026-01-02T15:04:05Z INFO session: trial answered [runner.go:42] trial=3
//
// The component attribute becomes the line prefix; groups are dotted into keys.
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	addSource bool
	component string
	group     string
	fields    []field
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(p)
	return err
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}
	component := h.component
	fields := h.fields
	if record.NumAttrs() > 0 {
		fields = cloneFields(h.fields, record.NumAttrs())
		record.Attrs(func(attr slog.Attr) bool {
			fields, component = h.appendAttr(fields, component, h.group, attr)
			return true
		})
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var line strings.Builder
	line.Grow(128 + 24*len(fields))
	line.WriteString(ts.UTC().Format(time.RFC3339))
	line.WriteByte(' ')
	line.WriteString(levelLabel(record.Level))
	line.WriteByte(' ')
	if component != "" {
		line.WriteString(component)
		line.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			line.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
		}
	}
	for _, f := range fields {
		line.WriteByte(' ')
		line.WriteString(f.key)
		line.WriteByte('=')
		line.WriteString(formatValue(f.value))
	}
	line.WriteByte('\n')
	return h.out.write([]byte(line.String()))
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = cloneFields(h.fields, len(attrs))
	for _, attr := range attrs {
		next.fields, next.component = h.appendAttr(next.fields, next.component, h.group, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// appendAttr flattens attr into dst. A top-level component attribute is
// returned separately so it can prefix the message; the first one wins.
func (h *consoleHandler) appendAttr(dst []field, component, group string, attr slog.Attr) ([]field, string) {
	if attr.Equal(slog.Attr{}) {
		return dst, component
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		inner := group
		if attr.Key != "" {
			inner = joinKey(group, attr.Key)
		}
		for _, a := range attr.Value.Group() {
			dst, component = h.appendAttr(dst, component, inner, a)
		}
		return dst, component
	}
	if group == "" && attr.Key == FieldComponent {
		if component == "" {
			component = attrString(attr.Value)
		}
		return dst, component
	}
	if attr.Key == "" {
		return dst, component
	}
	return append(dst, field{key: joinKey(group, attr.Key), value: attr.Value}), component
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func cloneFields(fields []field, extra int) []field {
	out := make([]field, len(fields), len(fields)+extra)
	copy(out, fields)
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
