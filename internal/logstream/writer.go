package logstream

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/alerting"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

// Writer appends records to the two log streams. Every append opens the file,
// writes one record, syncs, and closes again: no descriptor survives the
// call, so the rotation manager can rename the active file between appends,
// and a crash never leaves a partially buffered record behind. The active
// file is created on first append when absent.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) MetricsPath() string {
	return filepath.Join(w.dir, MetricsFileName)
}

func (w *Writer) AlertsPath() string {
	return filepath.Join(w.dir, AlertsFileName)
}

func (w *Writer) AppendReading(r metrics.Reading) error {
	return w.append(w.MetricsPath(), FormatReading(r))
}

func (w *Writer) AppendAlert(ev alerting.AlertEvent) error {
	return w.append(w.AlertsPath(), FormatAlert(ev))
}

func (w *Writer) append(path, record string) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.WriteString(record + "\n"); err != nil {
		return fmt.Errorf("append to %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	return nil
}
