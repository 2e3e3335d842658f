package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"usdabc/internal/config"
	"usdabc/internal/convert"
	"usdabc/internal/logging"
)

type outputMode int

const (
	outputTable outputMode = iota
	outputJSON
	// outputStderr renders the table on stderr because stdout carries the
	// converted scene.
	outputStderr
)

func reportMode(jsonOutput bool) outputMode {
	if jsonOutput {
		return outputJSON
	}
	return outputTable
}

// reportDocument is the JSON form of a run report.
type reportDocument struct {
	*convert.Report
	Summary convert.Summary `json:"summary"`
}

// finishRun persists and prints the report, then turns failed or skipped
// prims into a non-zero exit.
func finishRun(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, report *convert.Report, mode outputMode) error {
	logger = logging.NewComponentLogger(logger, "cli")
	saved, err := saveReport(cfg, report)
	if err != nil {
		logging.WarnWithContext(logger, "report not saved", "report_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.report_dir permissions"),
			logging.String(logging.FieldImpact, "the run report is only printed"),
		)
	} else if saved != "" {
		logger.Info("report saved", logging.String("path", saved))
		logging.CleanupOldFiles(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
			Dir:     cfg.Paths.ReportDir,
			Pattern: "report-*.json",
			Exclude: []string{saved},
		})
	}

	switch mode {
	case outputJSON:
		if err := writeJSON(cmd, reportDocument{Report: report, Summary: report.Summary()}); err != nil {
			return err
		}
	case outputStderr:
		out := cmd.ErrOrStderr()
		fmt.Fprint(out, renderReport(report, shouldColorize(out)))
	default:
		out := cmd.OutOrStdout()
		fmt.Fprint(out, renderReport(report, shouldColorize(out)))
	}

	if report.HasErrors() {
		summary := report.Summary()
		if summary.Failed == 0 {
			return fmt.Errorf("conversion aborted: %d prims skipped", summary.Skipped)
		}
		return fmt.Errorf("conversion incomplete (%d failed, %d skipped): %w", summary.Failed, summary.Skipped, report.Err())
	}
	return nil
}

func saveReport(cfg *config.Config, report *convert.Report) (string, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.ReportDir) == "" {
		return "", nil
	}
	path := filepath.Join(cfg.Paths.ReportDir, "report-"+report.RunID.String()+".json")
	doc := reportDocument{Report: report, Summary: report.Summary()}
	if err := writeJSONFile(path, doc); err != nil {
		return "", err
	}
	return path, nil
}

func renderReport(report *convert.Report, colorize bool) string {
	var b strings.Builder
	target := report.Destination
	if target == "" {
		target = "(stdout)"
	}
	fmt.Fprintf(&b, "%s %s -> %s\n", report.Direction, report.Source, target)

	rows := make([][]string, 0, len(report.Prims))
	var issueLines []string
	for _, prim := range report.Prims {
		rows = append(rows, []string{
			prim.Path,
			prim.Type,
			colorStatus(prim.Status, colorize),
			countOrDash(prim.Curves),
			countOrDash(prim.Samples),
			countOrDash(len(prim.Issues)),
		})
		for _, issue := range prim.Issues {
			subject := prim.Path
			if issue.Attribute != "" {
				subject += "." + issue.Attribute
			}
			issueLines = append(issueLines, fmt.Sprintf("  %s %s [%s] %s", colorSeverity(issue.Severity, colorize), subject, issue.Kind, issue.Message))
		}
	}
	b.WriteString(renderTable(
		"",
		[]string{"Prim", "Type", "Status", "Curves", "Samples", "Issues"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))
	b.WriteByte('\n')
	if len(issueLines) > 0 {
		b.WriteString("Issues:\n")
		b.WriteString(strings.Join(issueLines, "\n"))
		b.WriteByte('\n')
	}

	s := report.Summary()
	fmt.Fprintf(&b, "%d converted, %d hierarchy, %d failed, %d skipped, %d warnings (run %s)\n",
		s.Converted, s.Hierarchy, s.Failed, s.Skipped, s.Warnings, report.RunID)
	return b.String()
}

func countOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
