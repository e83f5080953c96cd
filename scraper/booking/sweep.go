package booking

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"booking-scraper/utils"

	"github.com/shirou/gopsutil/v4/process"
)

// KillStrayBrowsers force-kills headless browser and driver processes left
// behind by crashed prior runs. Best-effort: enumeration or kill failures are
// logged at debug level and ignored.
func KillStrayBrowsers(logger *utils.Logger) {
	procs, err := process.Processes()
	if err != nil {
		logger.Warn("Could not enumerate processes for cleanup: %v", err)
		return
	}

	killed := 0
	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || cmdline == "" {
			continue
		}
		isHeadlessChrome := strings.Contains(cmdline, "chrome") && strings.Contains(cmdline, "--headless")
		isDriver := strings.Contains(cmdline, "chromedriver")
		if !isHeadlessChrome && !isDriver {
			continue
		}
		if err := p.Kill(); err != nil {
			logger.Debug("Could not kill stray process %d: %v", p.Pid, err)
			continue
		}
		killed++
	}
	if killed > 0 {
		logger.Info("Stray browser processes eliminated: %d", killed)
	}
}

// killProcessesByProfileDir kills any process whose command line references
// the session's profile directory, defending against child processes that
// survived the browser shutdown.
func killProcessesByProfileDir(tempDir string, logger *utils.Logger) {
	procs, err := process.Processes()
	if err != nil {
		return
	}
	marker := "--user-data-dir=" + tempDir
	for _, p := range procs {
		cmdline, err := p.Cmdline()
		if err != nil || !strings.Contains(cmdline, marker) {
			continue
		}
		if err := p.Kill(); err != nil {
			logger.Debug("Could not kill process %d holding %s: %v", p.Pid, tempDir, err)
		}
	}
}

// CleanupStaleProfiles removes profile directories under base older than
// maxAge that still look like browser session profiles (contain a Default
// entry). Cleans up after crashed prior runs.
func CleanupStaleProfiles(base string, maxAge time.Duration, logger *utils.Logger) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}

	cleaned := 0
	now := time.Now()
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "tmp") {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, "Default")); err != nil {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			logger.Debug("Could not remove stale profile %s: %v", dir, err)
			continue
		}
		cleaned++
	}
	if cleaned > 0 {
		logger.Info("Stale profile cleanup: %d directories removed", cleaned)
	}
}
