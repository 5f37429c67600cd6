package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
)

// Run executes the interactive setup and returns an updated config. The
// caller saves it; cancelling returns an error and leaves the original
// config untouched.
func Run(existing *config.Config) (*config.Config, error) {
	// Work on a copy so a cancelled or declined run never mutates the
	// caller's config.
	cfg := workingCopy(existing)

	fmt.Println()
	fmt.Println("  ╔══════════════════════════════════════╗")
	fmt.Println("  ║     System Metric Tracker Setup      ║")
	fmt.Println("  ╚══════════════════════════════════════╝")
	fmt.Println()

	interval := strconv.Itoa(cfg.IntervalSeconds)
	logDir := cfg.LogDir
	cpuTh := formatPct(cfg.Thresholds.CPUPct)
	ramTh := formatPct(cfg.Thresholds.RAMPct)
	diskTh := formatPct(cfg.Thresholds.DiskPct)
	maxAge := strconv.Itoa(cfg.Rotation.MaxAgeDays)
	maxSize := strconv.FormatInt(cfg.Rotation.MaxSizeBytes, 10)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Sampling interval (seconds)").
				Description("How often to read CPU/RAM/disk usage").
				Validate(validatePositiveInt).
				Value(&interval),
			huh.NewInput().
				Title("Log directory").
				Description("Where syslog.txt, alerts.txt and archives live").
				Validate(validateNotEmpty).
				Value(&logDir),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("CPU alert threshold (%)").
				Description("0 disables CPU alerts").
				Validate(validatePct).
				Value(&cpuTh),
			huh.NewInput().
				Title("RAM alert threshold (%)").
				Description("0 disables RAM alerts").
				Validate(validatePct).
				Value(&ramTh),
			huh.NewInput().
				Title("Disk alert threshold (%)").
				Description("0 disables disk alerts").
				Validate(validatePct).
				Value(&diskTh),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Rotation max age (days)").
				Description("Rotate the active log once it is older than this").
				Validate(validatePositiveInt).
				Value(&maxAge),
			huh.NewInput().
				Title("Rotation max size (bytes)").
				Description("Rotate the active log once it grows past this").
				Validate(validatePositiveInt).
				Value(&maxSize),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("setup cancelled: %w", err)
	}

	// Validated above; parse errors cannot occur here.
	cfg.IntervalSeconds, _ = strconv.Atoi(strings.TrimSpace(interval))
	cfg.LogDir = strings.TrimSpace(logDir)
	cfg.Thresholds.CPUPct, _ = strconv.ParseFloat(strings.TrimSpace(cpuTh), 64)
	cfg.Thresholds.RAMPct, _ = strconv.ParseFloat(strings.TrimSpace(ramTh), 64)
	cfg.Thresholds.DiskPct, _ = strconv.ParseFloat(strings.TrimSpace(diskTh), 64)
	cfg.Rotation.MaxAgeDays, _ = strconv.Atoi(strings.TrimSpace(maxAge))
	cfg.Rotation.MaxSizeBytes, _ = strconv.ParseInt(strings.TrimSpace(maxSize), 10, 64)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var confirmed bool
	summary := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Description(fmt.Sprintf(
					"interval %ds | logs in %s | thresholds cpu %s%% ram %s%% disk %s%% | rotate after %sd or %s bytes",
					cfg.IntervalSeconds, cfg.LogDir, cpuTh, ramTh, diskTh, maxAge, maxSize)).
				Value(&confirmed),
		),
	)
	if err := summary.Run(); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, fmt.Errorf("setup cancelled by user")
	}
	return cfg, nil
}

func workingCopy(existing *config.Config) *config.Config {
	if existing == nil {
		return config.DefaultConfig()
	}
	copied := *existing
	return &copied
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value required")
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validatePct(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if v < 0 || v > 100 {
		return fmt.Errorf("must be within 0-100")
	}
	return nil
}
