//nolint:err113 // Test file uses errors.New() for creating test errors
package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleJSON(t *testing.T, attrs ...slog.Attr) map[string]any {
	t.Helper()

	var buf bytes.Buffer

	handler := &slogErrorLogger{inner: slog.NewJSONHandler(&buf, nil)}

	record := slog.NewRecord(time.Now(), slog.LevelError, "test message", 0)
	record.AddAttrs(attrs...)

	require.NoError(t, handler.Handle(t.Context(), record))

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))

	return logData
}

func TestAnnotateError(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, AnnotateError(nil, "key", "value"))
	})

	t.Run("keeps message and attributes", func(t *testing.T) {
		t.Parallel()

		baseErr := errors.New("base error")
		annotated := AnnotateError(baseErr, "container", "flat", "size", 10)

		require.Error(t, annotated)
		assert.Equal(t, "base error", annotated.Error())

		var se *slogError
		require.ErrorAs(t, annotated, &se)
		require.Len(t, se.attrs, 2)
		assert.Equal(t, "container", se.attrs[0].Key)
		assert.Equal(t, "size", se.attrs[1].Key)
	})

	t.Run("supports errors.Is through wrapping", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("sentinel")
		wrapped := fmt.Errorf("outer: %w", AnnotateError(sentinel, "k", "v"))

		assert.ErrorIs(t, wrapped, sentinel)
	})
}

func TestSlogErrorLogger_Handle(t *testing.T) {
	t.Parallel()

	t.Run("plain error is kept", func(t *testing.T) {
		t.Parallel()

		logData := handleJSON(t, slog.Any("error", errors.New("plain error")))
		assert.Equal(t, "plain error", logData["error"])
	})

	t.Run("annotated error attributes are extracted", func(t *testing.T) {
		t.Parallel()

		annotated := AnnotateError(errors.New("base error"), "attr1", "value1", "attr2", 42, "attr3", true)

		logData := handleJSON(t, slog.String("regular", "x"), slog.Any("error", annotated))

		assert.Equal(t, "base error", logData["error"])
		assert.Equal(t, "x", logData["regular"])
		assert.Equal(t, "value1", logData["attr1"])
		assert.InDelta(t, 42, logData["attr2"], 0.001)
		assert.Equal(t, true, logData["attr3"])
	})

	t.Run("annotation below a wrap", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("run failed: %w", AnnotateError(errors.New("boom"), "scenario", "insert"))

		logData := handleJSON(t, slog.Any("error", err))

		assert.Equal(t, "run failed: boom", logData["error"])
		assert.Equal(t, "insert", logData["scenario"])
	})

	t.Run("joined errors are indexed", func(t *testing.T) {
		t.Parallel()

		joined := errors.Join(
			AnnotateError(errors.New("error one"), "source1", "flat"),
			errors.New("error two"),
			AnnotateError(errors.New("error three"), "source3", "tree"),
		)

		logData := handleJSON(t, slog.Any("error", joined))

		assert.Equal(t, "error one", logData["error[0]"])
		assert.Equal(t, "error two", logData["error[1]"])
		assert.Equal(t, "error three", logData["error[2]"])
		assert.Equal(t, "flat", logData["source1"])
		assert.Equal(t, "tree", logData["source3"])
	})

	t.Run("nested joins are searched", func(t *testing.T) {
		t.Parallel()

		inner := errors.Join(AnnotateError(errors.New("e1"), "level1", "1"), AnnotateError(errors.New("e2"), "level2", "2"))
		outer := errors.Join(inner, AnnotateError(errors.New("e3"), "level3", "3"))

		logData := handleJSON(t, slog.Any("error", outer))

		assert.Equal(t, "1", logData["level1"])
		assert.Equal(t, "2", logData["level2"])
		assert.Equal(t, "3", logData["level3"])
	})
}

func TestSlogErrorLogger_Decorates(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := NewHandler(Options{JSON: true, Output: &buf, MinLevel: slog.LevelWarn})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelError))

	logger := slog.New(handler).With("static", "yes").WithGroup("g")
	logger.Error("failed", "error", AnnotateError(errors.New("bad"), "detail", "d"))

	output := buf.String()
	assert.Contains(t, output, `"static":"yes"`)
	assert.Contains(t, output, `"detail":"d"`)
	assert.Contains(t, output, `"error":"bad"`)
}
