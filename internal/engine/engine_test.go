package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/logstream"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

type fakeSource struct {
	readings []metrics.Reading
	err      error
	calls    int
}

func (f *fakeSource) Sample() (metrics.Reading, error) {
	r := f.readings[f.calls%len(f.readings)]
	f.calls++
	return r, f.err
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.LogDir = dir
	return cfg
}

func testEngine(cfg *config.Config, src metrics.Source) *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, src, logger)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read %s: %v", path, err)
	}
	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func TestTickAppendsReadingAndAlert(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 85, RAMPercent: 40, DiskPercent: 30},
		{Timestamp: at.Add(time.Minute), CPUPercent: 50, RAMPercent: 40, DiskPercent: 30},
	}}
	e := testEngine(cfg, src)

	e.tick() // cpu 85 > 80: reading + alert
	e.tick() // cpu 50: reading only

	metricLines := readLines(t, filepath.Join(dir, logstream.MetricsFileName))
	if len(metricLines) != 2 {
		t.Fatalf("expected 2 metrics records, got %d: %q", len(metricLines), metricLines)
	}
	alertLines := readLines(t, filepath.Join(dir, logstream.AlertsFileName))
	if len(alertLines) != 1 {
		t.Fatalf("expected 1 alert record, got %d: %q", len(alertLines), alertLines)
	}

	ev, err := logstream.ParseAlert(alertLines[0])
	if err != nil {
		t.Fatalf("parse alert: %v", err)
	}
	if ev.Metric != metrics.MetricCPU || ev.Value != 85 || ev.Threshold != 80 {
		t.Fatalf("unexpected alert: %+v", ev)
	}
}

func TestAlertRefiresEveryTickAboveThreshold(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 90, RAMPercent: 10, DiskPercent: 10},
	}}
	e := testEngine(cfg, src)

	for i := 0; i < 3; i++ {
		e.tick()
	}

	alertLines := readLines(t, filepath.Join(dir, logstream.AlertsFileName))
	if len(alertLines) != 3 {
		t.Fatalf("level-triggered alerting should fire per tick; got %d alerts", len(alertLines))
	}
}

func TestSamplingErrorStillLogsSentinelReading(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{
		readings: []metrics.Reading{
			{Timestamp: at, CPUPercent: metrics.Unknown, RAMPercent: 42, DiskPercent: 17},
		},
		err: metrics.ErrMetricUnavailable,
	}
	e := testEngine(cfg, src)

	e.tick()

	lines := readLines(t, filepath.Join(dir, logstream.MetricsFileName))
	if len(lines) != 1 {
		t.Fatalf("expected the partial reading to be logged, got %d records", len(lines))
	}
	r, err := logstream.ParseReading(lines[0])
	if err != nil {
		t.Fatalf("parse reading: %v", err)
	}
	if metrics.Known(r.CPUPercent) {
		t.Fatalf("cpu should be the sentinel, got %g", r.CPUPercent)
	}
	if r.RAMPercent != 42 {
		t.Fatalf("ram should survive partial failure, got %g", r.RAMPercent)
	}
	// No alert from a sentinel even with a low threshold.
	if alerts := readLines(t, filepath.Join(dir, logstream.AlertsFileName)); len(alerts) != 0 {
		t.Fatalf("sentinel readings must not alert: %q", alerts)
	}
}

func TestAppendFailureSkipsPersistenceAndContinues(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	// Occupy the metrics file name with a directory so appends to it fail.
	blocked := filepath.Join(dir, logstream.MetricsFileName)
	if err := os.Mkdir(blocked, 0755); err != nil {
		t.Fatalf("block metrics path: %v", err)
	}

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 95, RAMPercent: 10, DiskPercent: 10},
	}}
	e := testEngine(cfg, src)

	// The tick must complete: persistence of the reading is skipped, the
	// rest of the cycle still runs.
	e.tick()

	if alerts := readLines(t, filepath.Join(dir, logstream.AlertsFileName)); len(alerts) != 1 {
		t.Fatalf("alert stream should still be written, got %d records", len(alerts))
	}
	if _, ok := e.Status(); !ok {
		t.Fatalf("status should update even when persistence fails")
	}

	// Once the path is writable again, the next tick appends normally.
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("unblock metrics path: %v", err)
	}
	e.tick()
	if lines := readLines(t, filepath.Join(dir, logstream.MetricsFileName)); len(lines) != 1 {
		t.Fatalf("expected exactly the post-recovery record, got %d", len(lines))
	}
}

func TestStatusReflectsMostRecentReading(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 20, RAMPercent: 30, DiskPercent: 40},
		{Timestamp: at.Add(time.Minute), CPUPercent: 25, RAMPercent: 35, DiskPercent: 45},
	}}
	e := testEngine(cfg, src)

	if _, ok := e.Status(); ok {
		t.Fatalf("status should be empty before the first tick")
	}

	e.tick()
	e.tick()

	r, ok := e.Status()
	if !ok {
		t.Fatalf("status should be available after ticks")
	}
	if r.CPUPercent != 25 || !r.Timestamp.Equal(at.Add(time.Minute)) {
		t.Fatalf("status should hold the latest reading: %+v", r)
	}
}

func TestRotationCheckRunsOnCadence(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.RotationCheckEvery = 2
	cfg.Rotation.MaxSizeBytes = 1 // any record exceeds this

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 10, RAMPercent: 10, DiskPercent: 10},
	}}
	e := testEngine(cfg, src)

	e.tick() // tick 1: no rotation check yet
	if archives := countArchives(t, dir); archives != 0 {
		t.Fatalf("rotation should not run before the cadence, found %d archives", archives)
	}

	e.tick() // tick 2: rotation check fires, metrics log is oversized
	if archives := countArchives(t, dir); archives == 0 {
		t.Fatalf("expected an archive after the rotation check tick")
	}
}

func TestRotateNowArchivesActiveStreams(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 95, RAMPercent: 10, DiskPercent: 10},
	}}
	e := testEngine(cfg, src)

	e.tick() // produces both a reading and an alert

	if err := e.RotateNow(); err != nil {
		t.Fatalf("rotate now: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, logstream.MetricsFileName)); !os.IsNotExist(err) {
		t.Fatalf("metrics active file should be gone after forced rotation")
	}
	if _, err := os.Stat(filepath.Join(dir, logstream.AlertsFileName)); !os.IsNotExist(err) {
		t.Fatalf("alerts active file should be gone after forced rotation")
	}
	if archives := countArchives(t, dir); archives != 2 {
		t.Fatalf("expected 2 archives, found %d", archives)
	}

	// The next tick recreates fresh active files.
	e.tick()
	if lines := readLines(t, filepath.Join(dir, logstream.MetricsFileName)); len(lines) != 1 {
		t.Fatalf("fresh active file should hold exactly the new record, got %d", len(lines))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.IntervalSeconds = 3600 // never ticks again within the test

	at := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{readings: []metrics.Reading{
		{Timestamp: at, CPUPercent: 10, RAMPercent: 10, DiskPercent: 10},
	}}
	e := testEngine(cfg, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	// Wait for the immediate first tick to land.
	deadline := time.After(5 * time.Second)
	for {
		if _, ok := e.Status(); ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("first tick never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancellation")
	}
}

func countArchives(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	n := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".gz") {
			n++
		}
	}
	return n
}
