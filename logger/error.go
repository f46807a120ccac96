package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with structured logging attributes (slog key-value pairs).
// When the returned error is logged through a handler built by NewHandler, the
// attributes are extracted and written next to the error, even if the error
// has been wrapped again or joined with other errors on the way up.
//
// Example:
//
//	if err != nil {
//	    return logger.AnnotateError(err, "container", "flat", "size", n)
//	}
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &slogError{
		err:   err,
		attrs: errAttrs,
	}
}

// slogError wraps an error with structured logging attributes.
type slogError struct {
	err   error
	attrs []slog.Attr
}

func (s *slogError) Error() string {
	return s.err.Error()
}

func (s *slogError) Unwrap() error {
	return s.err
}

var _ error = (*slogError)(nil)

// annotations collects the attributes of every annotated error in err's tree,
// outermost first.
func annotations(err error) []slog.Attr {
	var out []slog.Attr

	for err != nil {
		if se, ok := err.(*slogError); ok { //nolint:errorlint // walking the tree by hand
			out = append(out, se.attrs...)
		}

		switch e := err.(type) { //nolint:errorlint // walking the tree by hand
		case interface{ Unwrap() []error }:
			for _, child := range e.Unwrap() {
				out = append(out, annotations(child)...)
			}

			return out
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return out
		}
	}

	return out
}

// slogErrorLogger is a slog.Handler decorator that extracts structured attributes
// from annotated errors (created via AnnotateError) and includes them in log output.
//
// A joined error (errors.Join) additionally gets one attribute per member,
// named key[0], key[1] and so on.
type slogErrorLogger struct {
	inner slog.Handler
}

var _ slog.Handler = (*slogErrorLogger)(nil)

func (s *slogErrorLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

func (s *slogErrorLogger) Handle(ctx context.Context, record slog.Record) error {
	var (
		baseAttrs []slog.Attr
		errAttrs  []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		err, ok := attr.Value.Any().(error)
		if !ok {
			baseAttrs = append(baseAttrs, attr)

			return true
		}

		baseAttrs = append(baseAttrs, slog.String(attr.Key, err.Error()))

		if joined, ok := err.(interface{ Unwrap() []error }); ok { //nolint:errorlint // only a top-level join is indexed
			for i, member := range joined.Unwrap() {
				baseAttrs = append(baseAttrs, slog.String(fmt.Sprintf("%s[%d]", attr.Key, i), member.Error()))
			}
		}

		errAttrs = append(errAttrs, annotations(err)...)

		return true
	})

	r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	r.AddAttrs(baseAttrs...)
	r.AddAttrs(errAttrs...)

	return s.inner.Handle(ctx, r)
}

func (s *slogErrorLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &slogErrorLogger{inner: s.inner.WithAttrs(attrs)}
}

func (s *slogErrorLogger) WithGroup(name string) slog.Handler {
	return &slogErrorLogger{inner: s.inner.WithGroup(name)}
}
