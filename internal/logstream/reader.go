package logstream

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

// ReadReadings parses the metrics log lineage in dir: the active file plus
// every rotated archive, decompressed transparently. Records older than the
// cutoff and lines that fail to parse are skipped. Results are sorted by
// timestamp, which restores order across the active/archive boundary.
func ReadReadings(dir string, since time.Time) ([]metrics.Reading, error) {
	var readings []metrics.Reading

	paths, err := lineage(dir, MetricsFileName)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		entries, err := readFile(path, since)
		if err != nil {
			return nil, err
		}
		readings = append(readings, entries...)
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

// lineage lists the active file (if present) and its .gz archives.
func lineage(dir, name string) ([]string, error) {
	var paths []string

	active := filepath.Join(dir, name)
	if _, err := os.Stat(active); err == nil {
		paths = append(paths, active)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return paths, nil
		}
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), name+".") && strings.HasSuffix(e.Name(), ".gz") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}

func readFile(path string, since time.Time) ([]metrics.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", filepath.Base(path), err)
		}
		defer gz.Close()
		r = gz
	}

	var readings []metrics.Reading
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		reading, err := ParseReading(line)
		if err != nil {
			continue
		}
		if reading.Timestamp.Before(since) {
			continue
		}
		readings = append(readings, reading)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", filepath.Base(path), err)
	}
	return readings, nil
}
