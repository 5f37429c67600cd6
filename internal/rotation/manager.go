package rotation

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrCompression marks a failed archive compression. The uncompressed file
// survives under its intermediate name and the next check retries it.
var ErrCompression = errors.New("compression failed")

// intermediateSuffix names the file between rename and compression. Writers
// never touch it; its presence means a rotation is mid-flight or failed.
const intermediateSuffix = ".rotating"

const archiveTimeFormat = "20060102T150405Z"

// Outcome reports what a rotation check did.
type Outcome struct {
	Rotated     bool
	ArchivePath string
}

// Manager rotates a log file into a compressed, timestamped archive when it
// grows past MaxSize or older than MaxAge. Rotation never deletes data: the
// uncompressed intermediate is removed only after the archive is fully
// written.
type Manager struct {
	MaxAge  time.Duration
	MaxSize int64

	logger *slog.Logger

	// Overridable in tests.
	now      func() time.Time
	compress func(src, dst string) error
}

func NewManager(maxAge time.Duration, maxSize int64, logger *slog.Logger) *Manager {
	return &Manager{
		MaxAge:   maxAge,
		MaxSize:  maxSize,
		logger:   logger,
		now:      time.Now,
		compress: gzipCompress,
	}
}

// MaybeRotate checks the active file at path against the policy and rotates
// it at most once. A pending intermediate from an earlier compression
// failure is retried first, before the active file is considered.
func (m *Manager) MaybeRotate(path string) (Outcome, error) {
	if pending, outcome, err := m.retryPending(path); pending {
		return outcome, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// The next append recreates the active file.
			return Outcome{}, nil
		}
		return Outcome{}, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}

	age := m.now().Sub(info.ModTime())
	if age <= m.MaxAge && info.Size() <= m.MaxSize {
		return Outcome{}, nil
	}

	m.logger.Info("rotating log",
		"file", filepath.Base(path),
		"age", age.Truncate(time.Second),
		"size_bytes", info.Size())
	return m.rotate(path)
}

// Rotate rotates the active file regardless of age or size. Used by the
// manual rotate entry point. Returns a zero outcome if there is nothing to
// rotate.
func (m *Manager) Rotate(path string) (Outcome, error) {
	if pending, outcome, err := m.retryPending(path); pending {
		return outcome, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Outcome{}, nil
		}
		return Outcome{}, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	return m.rotate(path)
}

// retryPending resumes a rotation whose compression step failed earlier.
// A stat error other than absence aborts the check: renaming the active
// file over a possibly present intermediate would lose its records.
func (m *Manager) retryPending(path string) (bool, Outcome, error) {
	inter := path + intermediateSuffix
	if _, err := os.Stat(inter); err != nil {
		if os.IsNotExist(err) {
			return false, Outcome{}, nil
		}
		return true, Outcome{}, fmt.Errorf("stat %s: %w", filepath.Base(inter), err)
	}
	m.logger.Warn("retrying interrupted rotation", "file", filepath.Base(inter))
	outcome, err := m.archive(path, inter)
	return true, outcome, err
}

func (m *Manager) rotate(path string) (Outcome, error) {
	inter := path + intermediateSuffix
	// The rename detaches the active name so no append can land in the file
	// mid-rotation; the writer recreates a fresh active file on next append.
	if err := os.Rename(path, inter); err != nil {
		return Outcome{}, fmt.Errorf("rename %s for rotation: %w", filepath.Base(path), err)
	}
	return m.archive(path, inter)
}

func (m *Manager) archive(path, inter string) (Outcome, error) {
	archivePath := fmt.Sprintf("%s.%s.gz", path, m.now().UTC().Format(archiveTimeFormat))
	if err := m.compress(inter, archivePath); err != nil {
		// Keep the intermediate: deleting before a verified archive would
		// lose data. The next check retries.
		_ = os.Remove(archivePath)
		return Outcome{}, fmt.Errorf("%w: %s: %v", ErrCompression, filepath.Base(inter), err)
	}
	if err := os.Remove(inter); err != nil {
		return Outcome{}, fmt.Errorf("remove intermediate %s: %w", filepath.Base(inter), err)
	}
	m.logger.Info("log archived", "archive", filepath.Base(archivePath))
	return Outcome{Rotated: true, ArchivePath: archivePath}, nil
}

func gzipCompress(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
