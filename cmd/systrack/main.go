package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/display"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/engine"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/logstream"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/service"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/version"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/wizard"
)

func usage() {
	fmt.Fprintf(os.Stderr, `systrack - local system resource monitor

Usage: systrack [flags] <command>

Commands:
  start              run the monitoring loop until interrupted
  status             sample and show current CPU/RAM/disk usage
  trend              show usage trends from the logs (see --days)
  rotate             rotate and compress the active logs now
  setup              interactive configuration
  service install    register the monitor as a background service
  service uninstall  remove the background service
  version            print version and exit

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	days := flag.Int("days", 1, "days of history for the trend command")
	flag.Usage = usage
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	command := flag.Arg(0)
	if command == "" {
		usage()
		os.Exit(2)
	}
	if command == "version" {
		fmt.Println(version.String())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	switch command {
	case "start":
		runStart(cfg, logger)
	case "status":
		runStatus(cfg, logger)
	case "trend":
		runTrend(cfg, *days, logger)
	case "rotate":
		runRotate(cfg, logger)
	case "setup":
		runSetup(cfg, *configPath, logger)
	case "service":
		runService(flag.Arg(1), *configPath, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}
}

func mustValidate(cfg *config.Config, logger *slog.Logger) {
	// The only fatal error class: a config the monitor cannot run with.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
}

func runStart(cfg *config.Config, logger *slog.Logger) {
	mustValidate(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	engine.New(cfg, metrics.NewSystemSource(), logger).Run(ctx)
}

func runStatus(cfg *config.Config, logger *slog.Logger) {
	mustValidate(cfg, logger)

	reading, err := metrics.NewSystemSource().Sample()
	if err != nil {
		logger.Warn("sampling incomplete", "err", err)
	}
	fmt.Print(display.StatusView(reading, cfg.Thresholds))
}

func runTrend(cfg *config.Config, days int, logger *slog.Logger) {
	mustValidate(cfg, logger)
	if days <= 0 {
		logger.Error("days must be positive", "days", days)
		os.Exit(1)
	}

	since := time.Now().AddDate(0, 0, -days)
	readings, err := logstream.ReadReadings(cfg.LogDir, since)
	if err != nil {
		logger.Error("failed to read log data", "err", err)
		os.Exit(1)
	}
	fmt.Print(display.TrendView(readings, days, cfg.Thresholds.CPUPct))
}

func runRotate(cfg *config.Config, logger *slog.Logger) {
	mustValidate(cfg, logger)

	if err := engine.New(cfg, metrics.NewSystemSource(), logger).RotateNow(); err != nil {
		logger.Error("rotation failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("Logs rotated.")
}

func runSetup(cfg *config.Config, configPath string, logger *slog.Logger) {
	updated, err := wizard.Run(cfg)
	if err != nil {
		logger.Error("setup failed", "err", err)
		os.Exit(1)
	}
	if err := config.Save(updated, configPath); err != nil {
		logger.Error("failed to save config", "err", err)
		os.Exit(1)
	}
	logger.Info("config saved", "path", configPath)
}

func runService(action, configPath string, logger *slog.Logger) {
	binPath, err := os.Executable()
	if err != nil {
		logger.Error("cannot resolve executable path", "err", err)
		os.Exit(1)
	}

	switch action {
	case "install":
		err = service.Install(binPath, configPath)
	case "uninstall":
		err = service.Uninstall()
	default:
		fmt.Fprintln(os.Stderr, "usage: systrack service {install|uninstall}")
		os.Exit(2)
	}
	if err != nil {
		logger.Error("service command failed", "err", err)
		os.Exit(1)
	}
}
