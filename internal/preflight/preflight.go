package preflight

import (
	"errors"
	"fmt"
	"strings"

	"usdabc/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ForWrite runs the checks needed before converting the scene at src into
// the archive at dst.
func ForWrite(cfg *config.Config, src, dst string) []Result {
	results := []Result{
		CheckReadableFile("Scene", src),
		CheckWritableTarget("Archive", dst),
	}
	return append(results, outputDirs(cfg)...)
}

// ForRead runs the checks needed before reading the archive at src. dst is
// optional; when set the scene document written there must be creatable.
func ForRead(cfg *config.Config, src, dst string) []Result {
	results := []Result{CheckReadableFile("Archive", src)}
	if strings.TrimSpace(dst) != "" {
		results = append(results, CheckWritableTarget("Scene", dst))
	}
	return append(results, outputDirs(cfg)...)
}

func outputDirs(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Paths.ReportDir != "" {
		results = append(results, CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir))
	}
	return results
}

// Err joins the failed results into one error, or returns nil when every
// check passed.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}
