// Package hooks provides production-ready Hook, Logger and metrics
// implementations for the batch coordinator.
package hooks

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/printforge/imageconv/core"
)

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy core.Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

// LevelFromString maps a configured log level name to a slog.Level.
// Unknown values fall back to Info.
func LevelFromString(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each batch item.
type LoggingHook struct {
	logger core.Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l core.Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeItem(_ context.Context, index int, item *core.BatchItem) {
	h.logger.Debug("item.start",
		"index", index,
		"source", item.Source.Name,
		"size", item.Source.Width*item.Source.Height,
		"mode", string(item.Settings.Mode),
		"system_asset", item.SystemAsset,
	)
}

func (h *LoggingHook) AfterItem(_ context.Context, index int, item *core.BatchItem, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("item.error",
			"index", index,
			"source", item.Source.Name,
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("item.done",
		"index", index,
		"output", item.OutputName,
		"bytes", item.OutputBytes,
		"duration_ms", d.Milliseconds(),
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics atomically; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.Mutex

	itemCount       int64
	totalDurationMs int64
	errorsByStage   map[string]int64

	totalOutputB int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{errorsByStage: make(map[string]int64)}
}

func (m *InMemoryMetrics) RecordItemDuration(d time.Duration) {
	m.mu.Lock()
	m.itemCount++
	m.totalDurationMs += d.Milliseconds()
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordOutputBytes(n int64) {
	atomic.AddInt64(&m.totalOutputB, n)
}

func (m *InMemoryMetrics) RecordError(stage string) {
	m.mu.Lock()
	m.errorsByStage[stage]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		ItemCount:       m.itemCount,
		TotalDurationMs: m.totalDurationMs,
		ErrorsByStage:   make(map[string]int64, len(m.errorsByStage)),
		TotalOutputB:    atomic.LoadInt64(&m.totalOutputB),
	}
	for k, v := range m.errorsByStage {
		snap.ErrorsByStage[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	ItemCount       int64
	TotalDurationMs int64
	ErrorsByStage   map[string]int64
	TotalOutputB    int64
}
