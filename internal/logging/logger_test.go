package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger_LogSimulation(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelInfo).WithNetwork(5, "all_to_all")

	l.LogSimulation("dynamic", "rk4", "converged", 42, 0.995, time.Millisecond)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "simulation finished", rec["msg"])
	assert.Equal(t, "converged", rec["termination"])
	assert.Equal(t, float64(5), rec["oscillators"])
	assert.Equal(t, float64(42), rec["steps"])
}

func TestLogRebuild_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelInfo)

	l.LogRebuild(0.5, 3, nil)
	assert.Empty(t, buf.String(), "successful rebuild logs at debug")

	l.LogRebuild(0.5, 0, errors.New("boom"))
	assert.Contains(t, buf.String(), "rebuild failed")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestWithStep(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelInfo).WithStep("warmup")
	l.Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warmup", rec["step"])
}

func TestLogAccuracyFallback(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelInfo)

	l.LogAccuracyFallback("rkf45", 0)
	assert.Empty(t, buf.String())

	l.LogAccuracyFallback("rkf45", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "rkf45", rec["solver"])
	assert.Equal(t, float64(3), rec["unchecked_steps"])
}
