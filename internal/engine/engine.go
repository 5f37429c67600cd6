package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/alerting"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/logstream"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/rotation"
)

// Engine drives the sampling loop: sample, evaluate, append, and every Nth
// tick a rotation check. One tick runs sequentially start to finish, so the
// two log streams never see concurrent writers and shutdown can only land
// between ticks, never mid-write.
type Engine struct {
	cfg     *config.Config
	source  metrics.Source
	writer  *logstream.Writer
	rotator *rotation.Manager
	logger  *slog.Logger

	mu    sync.Mutex
	last  *metrics.Reading
	ticks int
}

func New(cfg *config.Config, source metrics.Source, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		source:  source,
		writer:  logstream.NewWriter(cfg.LogDir),
		rotator: rotation.NewManager(cfg.MaxAge(), cfg.Rotation.MaxSizeBytes, logger),
		logger:  logger,
	}
}

// Run executes the monitoring loop until ctx is cancelled. Per-tick errors
// are logged and recovered; only cancellation ends the loop.
func (e *Engine) Run(ctx context.Context) {
	ident := metrics.CurrentIdentity()
	e.logger.Info("starting monitor",
		"hostname", ident.Hostname,
		"session_id", ident.SessionID,
		"interval", e.cfg.Interval(),
		"log_dir", e.cfg.LogDir,
		"cpu_threshold", e.cfg.Thresholds.CPUPct,
		"ram_threshold", e.cfg.Thresholds.RAMPct,
		"disk_threshold", e.cfg.Thresholds.DiskPct)

	// Immediate first tick, then the fixed cadence.
	e.tick()

	ticker := time.NewTicker(e.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.tick()
		case <-ctx.Done():
			e.logger.Info("monitor stopped")
			return
		}
	}
}

func (e *Engine) tick() {
	reading, err := e.source.Sample()
	if err != nil {
		// Partial failure: unreadable metrics carry the sentinel, the rest
		// of the reading is still logged.
		e.logger.Warn("sampling incomplete", "err", err)
	}

	events := alerting.Evaluate(reading, e.cfg.Thresholds)

	if err := e.writer.AppendReading(reading); err != nil {
		e.logger.Error("failed to append reading", "err", err)
	}
	for _, ev := range events {
		e.logger.Warn("threshold exceeded",
			"metric", ev.Metric,
			"value", ev.Value,
			"threshold", ev.Threshold)
		if err := e.writer.AppendAlert(ev); err != nil {
			e.logger.Error("failed to append alert", "err", err)
		}
	}

	e.mu.Lock()
	r := reading
	e.last = &r
	e.ticks++
	due := e.ticks%e.cfg.RotationCheckEvery == 0
	e.mu.Unlock()

	if due {
		e.checkRotation()
	}
}

func (e *Engine) checkRotation() {
	for _, path := range []string{e.writer.MetricsPath(), e.writer.AlertsPath()} {
		if _, err := e.rotator.MaybeRotate(path); err != nil {
			e.logger.Error("rotation check failed", "file", path, "err", err)
		}
	}
}

// Status returns the most recent reading without waiting for the next tick.
// The second return is false before the first tick completes.
func (e *Engine) Status() (metrics.Reading, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return metrics.Reading{}, false
	}
	return *e.last, true
}

// RotateNow rotates both streams regardless of age or size.
func (e *Engine) RotateNow() error {
	var errs []error
	for _, path := range []string{e.writer.MetricsPath(), e.writer.AlertsPath()} {
		if _, err := e.rotator.Rotate(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
