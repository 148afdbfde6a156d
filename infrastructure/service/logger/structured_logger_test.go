package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewStructuredLogger(LoggerConfig{
		Level:       level,
		Format:      "json",
		ServiceName: "missionboard",
		Output:      buf,
	}), buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestStructuredLogger_CorrelationID(t *testing.T) {
	log, buf := newBufferLogger("info")
	ctx := WithCorrelationID(context.Background(), "corr-1")

	log.Info(ctx, "hello", map[string]interface{}{"k": "v"})

	line := decode(t, buf)
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "missionboard", line["service"])
	assert.Equal(t, "v", line["k"])
}

func TestStructuredLogger_ErrorField(t *testing.T) {
	log, buf := newBufferLogger("info")

	log.Error(context.Background(), "boom", errors.New("db down"), nil)

	line := decode(t, buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "db down", line["error"])
}

func TestStructuredLogger_LevelFilter(t *testing.T) {
	log, buf := newBufferLogger("warn")

	log.Debug(context.Background(), "quiet", nil)
	log.Info(context.Background(), "quiet", nil)

	assert.Zero(t, buf.Len())
}

func TestStructuredLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	log, buf := newBufferLogger("info")
	child := log.WithFields(map[string]interface{}{"component": "gate"})

	log.Info(context.Background(), "parent", nil)
	line := decode(t, buf)
	_, ok := line["component"]
	assert.False(t, ok)

	buf.Reset()
	child.Info(context.Background(), "child", nil)
	assert.Equal(t, "gate", decode(t, buf)["component"])
}

func TestLogAuthEvent(t *testing.T) {
	t.Run("success logs at info", func(t *testing.T) {
		log, buf := newBufferLogger("info")
		LogAuthEvent(context.Background(), log, "login_succeeded", "user-1", "10.0.0.1", true, nil)

		line := decode(t, buf)
		assert.Equal(t, "info", line["level"])
		assert.Equal(t, "login_succeeded", line["auth_event"])
		assert.Equal(t, "user-1", line["user_id"])
		assert.Equal(t, "10.0.0.1", line["ip"])
	})

	t.Run("failure logs at warn", func(t *testing.T) {
		log, buf := newBufferLogger("info")
		LogAuthEvent(context.Background(), log, "login_failed", "", "", false, nil)

		line := decode(t, buf)
		assert.Equal(t, "warning", line["level"])
		_, hasIP := line["ip"]
		assert.False(t, hasIP)
	})
}

func TestLogSecurityEvent_Severity(t *testing.T) {
	log, buf := newBufferLogger("info")
	LogSecurityEvent(context.Background(), log, "refresh_not_current", "HIGH", map[string]interface{}{"subject": "a@b.c"})

	line := decode(t, buf)
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "security", line["event_type"])
}
