package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RetentionTarget names a directory and a file pattern to prune.
type RetentionTarget struct {
	Dir     string
	Pattern string
	// Exclude lists paths that are never removed, such as the report of the
	// current run.
	Exclude []string
}

// CleanupOldFiles removes files matching the targets whose modification
// time is older than retentionDays. It returns the number of files removed.
// A retentionDays value of 0 disables pruning.
func CleanupOldFiles(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 {
		return 0
	}
	if logger == nil {
		logger = NewNop()
	}
	return cleanupBefore(logger, time.Now().AddDate(0, 0, -retentionDays), targets)
}

func cleanupBefore(logger *slog.Logger, cutoff time.Time, targets []RetentionTarget) int {
	removed := 0
	for _, target := range targets {
		dir := strings.TrimSpace(target.Dir)
		if dir == "" {
			continue
		}
		excluded := absSet(target.Exclude)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if pattern := strings.TrimSpace(target.Pattern); pattern != "" {
				if matched, err := filepath.Match(pattern, entry.Name()); err != nil || !matched {
					continue
				}
			}
			fullPath := filepath.Join(dir, entry.Name())
			if abs, err := filepath.Abs(fullPath); err == nil {
				if _, skip := excluded[abs]; skip {
					continue
				}
			}
			info, err := entry.Info()
			if err != nil || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(fullPath); err != nil {
				logger.Debug("retention cleanup failed", String("path", fullPath), Error(err))
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		logger.Debug("retention cleanup removed files", Int("count", removed))
	}
	return removed
}

func absSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if abs, err := filepath.Abs(trimmed); err == nil {
			set[abs] = struct{}{}
		}
	}
	return set
}
