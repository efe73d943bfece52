package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AnnotateError attaches slog key-value pairs to err. When the error (or anything
// wrapping it) is logged through a handler installed by ConfigureLogging, the pairs
// are added to the log line next to the error message.
//
// Annotations survive fmt.Errorf("%w") wrapping. If several layers of a chain are
// annotated, the outermost value of a key wins. Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Time{}, slog.LevelDebug, "", 0)
	r.Add(args...)

	attrs := make([]slog.Attr, 0, r.NumAttrs())

	r.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)

		return true
	})

	return &annotatedError{err: err, attrs: attrs}
}

type annotatedError struct {
	err   error
	attrs []slog.Attr
}

func (e *annotatedError) Error() string {
	return e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// annotations collects the attributes of every annotated layer of err, outermost
// first, dropping keys that were already seen.
func annotations(err error) []slog.Attr {
	var (
		out  []slog.Attr
		seen = map[string]bool{}
	)

	for err != nil {
		var ae *annotatedError
		if !errors.As(err, &ae) {
			break
		}

		for _, attr := range ae.attrs {
			if !seen[attr.Key] {
				seen[attr.Key] = true

				out = append(out, attr)
			}
		}

		err = ae.err
	}

	return out
}

// annotationHandler flattens annotated errors into the record before handing it on.
type annotationHandler struct {
	inner slog.Handler
}

var _ slog.Handler = (*annotationHandler)(nil)

func (h *annotationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *annotationHandler) Handle(ctx context.Context, record slog.Record) error {
	var (
		attrs []slog.Attr
		extra []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		err, ok := attr.Value.Any().(error)
		if !ok {
			attrs = append(attrs, attr)

			return true
		}

		found := annotations(err)
		if len(found) == 0 {
			attrs = append(attrs, attr)

			return true
		}

		attrs = append(attrs, slog.String(attr.Key, err.Error()))
		extra = append(extra, found...)

		return true
	})

	if len(extra) == 0 {
		return h.inner.Handle(ctx, record)
	}

	present := make(map[string]bool, len(attrs))
	for _, attr := range attrs {
		present[attr.Key] = true
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	out.AddAttrs(attrs...)

	for _, attr := range extra {
		if !present[attr.Key] {
			present[attr.Key] = true

			out.AddAttrs(attr)
		}
	}

	return h.inner.Handle(ctx, out)
}

func (h *annotationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &annotationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *annotationHandler) WithGroup(name string) slog.Handler {
	return &annotationHandler{inner: h.inner.WithGroup(name)}
}
