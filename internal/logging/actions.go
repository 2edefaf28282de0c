package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// ActionsHandler is a slog.Handler that renders records as GitHub Actions
// workflow commands. Errors and warnings become annotations, info is printed
// as a plain log line and debug goes to the runner's debug stream.
type ActionsHandler struct {
	action *githubactions.Action
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewActionsHandler returns a handler writing workflow commands to w.
func NewActionsHandler(w io.Writer, level slog.Leveler) *ActionsHandler {
	return &ActionsHandler{
		action: githubactions.New(githubactions.WithWriter(w)),
		level:  level,
	}
}

func (h *ActionsHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ActionsHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	msg := b.String()

	switch {
	case r.Level >= slog.LevelError:
		h.action.Errorf("%s", msg)
	case r.Level >= slog.LevelWarn:
		h.action.Warningf("%s", msg)
	case r.Level >= slog.LevelInfo:
		h.action.Infof("%s", msg)
	default:
		h.action.Debugf("%s", msg)
	}
	return nil
}

func (h *ActionsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: h.prefix + a.Key, Value: a.Value})
	}
	return &next
}

func (h *ActionsHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			writeAttr(b, prefix+a.Key+".", ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(v.String())
}
