package log

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	var buf bytes.Buffer
	l := NewLogger()
	out := l.Out
	l.SetOutput(&buf)
	t.Cleanup(func() { l.SetOutput(out) })
	return &buf
}

func TestErrorWithTraceIDReusesRequestID(t *testing.T) {
	buf := captureLogger(t)

	traceID := ErrorWithTraceID(Fields{RequestIDKey: "01JABCDEF"}, "reload failed")
	assert.Equal(t, "01JABCDEF", traceID)
	assert.Contains(t, buf.String(), "reload failed")
	assert.Contains(t, buf.String(), "01JABCDEF")
}

func TestErrorWithTraceIDMintsUUID(t *testing.T) {
	buf := captureLogger(t)

	traceID := ErrorWithTraceID(Fields{RequestIDKey: "unknown"}, "boom")
	_, err := uuid.Parse(traceID)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), traceID)

	traceID = ErrorWithTraceID(nil, "boom")
	_, err = uuid.Parse(traceID)
	assert.NoError(t, err)
}

func TestWithRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	assert.Equal(t, "req-1", WithRequestID(ctx).Data[RequestIDKey])
	assert.Equal(t, "unknown", WithRequestID(context.Background()).Data[RequestIDKey])
}
