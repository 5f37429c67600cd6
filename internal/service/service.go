// Package service registers the monitor as a background service so it keeps
// sampling across logouts and reboots. Linux uses systemd, macOS launchd.
package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const serviceName = "systrack"

const launchdLabel = "com.systrack.monitor"

type initSystem string

const (
	systemd initSystem = "systemd"
	launchd initSystem = "launchd"
	unknown initSystem = ""
)

func detect() initSystem {
	if runtime.GOOS == "darwin" {
		return launchd
	}
	if _, err := exec.LookPath("systemctl"); err == nil {
		return systemd
	}
	return unknown
}

// Install writes a service definition that runs `binPath start` with the
// given config file.
func Install(binPath, configPath string) error {
	switch detect() {
	case systemd:
		return installSystemd(binPath, configPath)
	case launchd:
		return installLaunchd(binPath, configPath)
	default:
		return fmt.Errorf("no supported init system found (need systemd or launchd)")
	}
}

// Uninstall removes the service definition.
func Uninstall() error {
	switch detect() {
	case systemd:
		return uninstallSystemd()
	case launchd:
		return uninstallLaunchd()
	default:
		return fmt.Errorf("no supported init system found (need systemd or launchd)")
	}
}

func installSystemd(binPath, configPath string) error {
	unit := fmt.Sprintf(`[Unit]
Description=System Metric Tracker

[Service]
Type=simple
ExecStart=%s --config %s start
Restart=always
RestartSec=10
StandardOutput=journal
StandardError=journal

[Install]
WantedBy=multi-user.target
`, binPath, configPath)

	path := fmt.Sprintf("/etc/systemd/system/%s.service", serviceName)
	if err := writePrivileged(path, unit); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}
	if err := runPrivileged("systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}

	fmt.Printf("Systemd service installed: %s\n", path)
	fmt.Println()
	fmt.Printf("  Start now:    sudo systemctl enable --now %s\n", serviceName)
	fmt.Printf("  Check status: sudo systemctl status %s --no-pager -l\n", serviceName)
	fmt.Printf("  Check logs:   sudo journalctl -u %s -f\n", serviceName)
	return nil
}

func uninstallSystemd() error {
	_ = runPrivileged("systemctl", "stop", serviceName)
	_ = runPrivileged("systemctl", "disable", serviceName)
	path := fmt.Sprintf("/etc/systemd/system/%s.service", serviceName)
	if err := removePrivileged(path); err != nil {
		return err
	}
	_ = runPrivileged("systemctl", "daemon-reload")
	fmt.Printf("Systemd service removed: %s\n", serviceName)
	return nil
}

func installLaunchd(binPath, configPath string) error {
	plist := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
        <string>%s</string>
        <string>--config</string>
        <string>%s</string>
        <string>start</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>/tmp/%s.log</string>
    <key>StandardErrorPath</key>
    <string>/tmp/%s.log</string>
</dict>
</plist>
`, launchdLabel, binPath, configPath, serviceName, serviceName)

	home, _ := os.UserHomeDir()
	dir := filepath.Join(home, "Library", "LaunchAgents")
	_ = os.MkdirAll(dir, 0755)
	path := filepath.Join(dir, launchdLabel+".plist")

	if err := os.WriteFile(path, []byte(plist), 0644); err != nil {
		return fmt.Errorf("write plist: %w", err)
	}

	fmt.Printf("LaunchAgent installed: %s\n", path)
	fmt.Println()
	fmt.Printf("  Start now:  launchctl load %s\n", path)
	fmt.Printf("  Check logs: tail -f /tmp/%s.log\n", serviceName)
	return nil
}

func uninstallLaunchd() error {
	home, _ := os.UserHomeDir()
	path := filepath.Join(home, "Library", "LaunchAgents", launchdLabel+".plist")

	_ = exec.Command("launchctl", "unload", path).Run()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	fmt.Printf("LaunchAgent removed: %s\n", serviceName)
	return nil
}

func runPrivileged(name string, args ...string) error {
	if os.Getuid() != 0 {
		args = append([]string{name}, args...)
		name = "sudo"
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// writePrivileged writes content to a file, using sudo tee if not root.
func writePrivileged(path, content string) error {
	if os.Getuid() == 0 {
		return os.WriteFile(path, []byte(content), 0644)
	}
	cmd := exec.Command("sudo", "tee", path)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = nil // suppress tee's stdout echo
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func removePrivileged(path string) error {
	if os.Getuid() == 0 {
		return os.Remove(path)
	}
	return exec.Command("sudo", "rm", "-f", path).Run()
}
