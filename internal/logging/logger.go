// Package logging provides the structured logger used across oscnet.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with simulation-specific helpers.
// This keeps field names consistent across packages.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// WithNetwork tags records with the network size and topology.
func (l *Logger) WithNetwork(n int, topology string) *Logger {
	return &Logger{
		Logger: l.Logger.With("oscillators", n, "topology", topology),
	}
}

// WithSeed tags records with a trial seed.
func (l *Logger) WithSeed(seed int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("seed", seed),
	}
}

// WithStep tags records with a scenario step label.
func (l *Logger) WithStep(label string) *Logger {
	return &Logger{
		Logger: l.Logger.With("step", label),
	}
}

// LogSimulation logs the end of a simulate call.
func (l *Logger) LogSimulation(mode, solver, termination string, steps int, order float64, elapsed time.Duration) {
	l.Info("simulation finished",
		"mode", mode,
		"solver", solver,
		"termination", termination,
		"steps", steps,
		"local_order", order,
		"elapsed", elapsed,
	)
}

// LogRebuild logs a topology rebuild.
func (l *Logger) LogRebuild(radius float64, edges int, err error) {
	if err != nil {
		l.Error("rebuild failed",
			"radius", radius,
			"error", err,
		)
		return
	}
	l.Debug("rebuild completed",
		"radius", radius,
		"edges", edges,
	)
}

// LogAccuracyFallback warns when an adaptive solver had to take steps
// without error control.
func (l *Logger) LogAccuracyFallback(solver string, unchecked int) {
	if unchecked <= 0 {
		return
	}
	l.Warn("tolerance not met, steps taken without error control",
		"solver", solver,
		"unchecked_steps", unchecked,
	)
}

// LogTrials logs a batch of independent trials.
func (l *Logger) LogTrials(runs, failed int, elapsed time.Duration) {
	if failed > 0 {
		l.Warn("trials completed with failures",
			"total", runs,
			"failed", failed,
		)
		return
	}
	l.Info("trials completed",
		"count", runs,
		"elapsed", elapsed,
	)
}
