package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestLevelAttrReplacer(t *testing.T) {
	t.Parallel()
	cases := map[slog.Level]string{
		LevelCritical:     "CRITICAL",
		LevelPanic:        "PANIC",
		LevelFatal:        "FATAL",
		LevelCritical + 1: "CRITICAL+1",
	}
	for level, expected := range cases {
		attr := levelAttrReplacer(nil, slog.Any(slog.LevelKey, level))
		assert.Equal(t, expected, attr.Value.String())
	}

	info := levelAttrReplacer(nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, info.Value.Any())
}

func TestErrorAttrReplacer(t *testing.T) {
	t.Parallel()
	err := errors.Wrap(errors.New("connection refused"), "can't set synced height")
	attr := errorAttrReplacer(nil, slog.Any(ErrorKey, err))
	assert.Equal(t, "can't set synced height: connection refused", attr.Value.String())

	plain := errorAttrReplacer(nil, slog.String("receipt_id", "abc"))
	assert.Equal(t, "abc", plain.Value.String())
}

func TestDurationToMsAttrReplacer(t *testing.T) {
	t.Parallel()
	attr := durationToMsAttrReplacer(nil, slog.Duration("took", 1500*time.Millisecond))
	assert.Equal(t, int64(1500), attr.Value.Int64())
}

func TestGCPSeverityMapping(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "DEBUG", gcpSeverityMapping(slog.LevelDebug))
	assert.Equal(t, "WARNING", gcpSeverityMapping(slog.LevelWarn))
	assert.Equal(t, "ERROR", gcpSeverityMapping(slog.LevelError))
	assert.Equal(t, "EMERGENCY", gcpSeverityMapping(LevelFatal))
}

func TestLogAttrs(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	LogAttrs(ctx, slog.LevelDebug, "hidden", slog.String("receipt_id", "R0"))
	assert.Empty(t, buf.String())

	LogAttrs(ctx, slog.LevelInfo, "Request Completed", slog.Int("status", 200), slog.String("receipt_id", "R1"))
	assert.Contains(t, buf.String(), `msg="Request Completed"`)
	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "receipt_id=R1")
}
