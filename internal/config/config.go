package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full monitor configuration. A zero threshold disables
// alerting for that metric.
type Config struct {
	IntervalSeconds int    `toml:"interval_seconds"`
	LogDir          string `toml:"log_dir"`
	// RotationCheckEvery is how many sampling ticks pass between rotation
	// checks, so every tick does not pay for filesystem stats.
	RotationCheckEvery int `toml:"rotation_check_every"`

	Thresholds Thresholds `toml:"thresholds"`
	Rotation   Rotation   `toml:"rotation"`
}

type Thresholds struct {
	CPUPct  float64 `toml:"cpu_pct"`
	RAMPct  float64 `toml:"ram_pct"`
	DiskPct float64 `toml:"disk_pct"`
}

type Rotation struct {
	MaxAgeDays   int   `toml:"max_age_days"`
	MaxSizeBytes int64 `toml:"max_size_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		IntervalSeconds:    60,
		LogDir:             ".",
		RotationCheckEvery: 10,
		Thresholds: Thresholds{
			CPUPct: 80,
		},
		Rotation: Rotation{
			MaxAgeDays:   3,
			MaxSizeBytes: 1024 * 1024,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config for writing: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects configurations the monitor cannot run with. Validation
// failures are fatal at startup; nothing else in the process is.
func (c *Config) Validate() error {
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	if c.RotationCheckEvery <= 0 {
		return fmt.Errorf("rotation_check_every must be positive, got %d", c.RotationCheckEvery)
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir must not be empty")
	}
	for _, th := range []struct {
		name  string
		value float64
	}{
		{"thresholds.cpu_pct", c.Thresholds.CPUPct},
		{"thresholds.ram_pct", c.Thresholds.RAMPct},
		{"thresholds.disk_pct", c.Thresholds.DiskPct},
	} {
		if th.value < 0 || th.value > 100 {
			return fmt.Errorf("%s must be within [0,100], got %g", th.name, th.value)
		}
	}
	if c.Rotation.MaxAgeDays <= 0 {
		return fmt.Errorf("rotation.max_age_days must be positive, got %d", c.Rotation.MaxAgeDays)
	}
	if c.Rotation.MaxSizeBytes <= 0 {
		return fmt.Errorf("rotation.max_size_bytes must be positive, got %d", c.Rotation.MaxSizeBytes)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func (c *Config) MaxAge() time.Duration {
	return time.Duration(c.Rotation.MaxAgeDays) * 24 * time.Hour
}

func DefaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "systrack", "config.toml")
	}
	return "/etc/systrack/config.toml"
}
