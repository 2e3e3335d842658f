package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"usdabc/internal/config"
	"usdabc/internal/logging"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("filtered out")
	logger.Error("conversion failed", logging.String("prim", "/Curves"))

	lines := readLines(t, filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), lines)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("log file line is not JSON: %v", err)
	}
	if record["msg"] != "conversion failed" || record["level"] != "error" || record["prim"] != "/Curves" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestConsoleLoggerPromotesComponentAndPrim(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "convert").
		With(logging.Prim("/Cubic/Ribbons")).
		Info("prim committed", logging.Int("curves", 2))

	lines := readLines(t, logPath)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", lines)
	}
	line := lines[0]
	for _, want := range []string{"INFO", "convert: prim committed", "[/Cubic/Ribbons]", "curves=2"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "prim=") {
		t.Fatalf("promoted fields should not repeat as key/value: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level: %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")

	if line := readLines(t, logPath)[0]; !strings.Contains(line, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "interpolation degraded", "unsupported_interpolation",
		logging.String(logging.FieldImpact, "widths converted as varying"),
	)

	var record map[string]any
	if err := json.Unmarshal([]byte(readLines(t, logPath)[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record[logging.FieldEventType] != "unsupported_interpolation" {
		t.Fatalf("missing event type: %v", record)
	}
	if record[logging.FieldErrorHint] == nil {
		t.Fatalf("missing error hint: %v", record)
	}
	if record[logging.FieldImpact] != "widths converted as varying" {
		t.Fatalf("caller impact should be kept: %v", record)
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	base, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "run-123")
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
	logging.WithContext(ctx, base).Info("started")

	if line := readLines(t, logPath)[0]; !strings.Contains(line, `"run_id":"run-123"`) {
		t.Fatalf("expected run_id in %q", line)
	}
	if _, ok := logging.RunIDFromContext(context.Background()); ok {
		t.Fatal("expected no run id on empty context")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop")
	logging.NewComponentLogger(nil, "convert").Error("ignored")
}

func TestFilePathReceivesJSONCopyOfConsoleLogs(t *testing.T) {
	dir := t.TempDir()
	consolePath := filepath.Join(dir, "console.log")
	filePath := filepath.Join(dir, "nested", "usdabc.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{consolePath}, FilePath: filePath})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(logging.String(logging.FieldRunID, "run-1")).Info("archive written", logging.Int("objects", 3))

	consoleLine := readLines(t, consolePath)[0]
	if strings.HasPrefix(consoleLine, "{") {
		t.Fatalf("console copy should not be JSON: %q", consoleLine)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(readLines(t, filePath)[0]), &record); err != nil {
		t.Fatalf("file copy is not JSON: %v", err)
	}
	if record["msg"] != "archive written" || record["run_id"] != "run-1" || record["objects"] != float64(3) {
		t.Fatalf("unexpected file record %v", record)
	}
}

func TestCleanupOldFilesHonoursPatternAndExclusions(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -10)
	write := func(name string, mod time.Time) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}
	stale := write("report-a.json", old)
	current := write("report-b.json", old)
	fresh := write("report-c.json", time.Now())
	other := write("notes.txt", old)

	removed := logging.CleanupOldFiles(nil, 7, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "report-*.json",
		Exclude: []string{current},
	})
	if removed != 1 {
		t.Fatalf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale report removed, stat err=%v", err)
	}
	for _, keep := range []string{current, fresh, other} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("expected %s kept: %v", keep, err)
		}
	}
	if got := logging.CleanupOldFiles(nil, 0, logging.RetentionTarget{Dir: dir}); got != 0 {
		t.Fatalf("retention 0 should disable pruning, removed %d", got)
	}
}

func TestErrorWithContextTagsPrimAndAttribute(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "error.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.ErrorWithContext(logger.With(logging.Prim("/Cubic/Broken")), "prim conversion failed", "shape_mismatch",
		logging.Attribute("tangents"),
		logging.String(logging.FieldErrorHint, "fix tangent count"),
	)

	var record map[string]any
	if err := json.Unmarshal([]byte(readLines(t, logPath)[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	want := map[string]string{
		logging.FieldPrim:      "/Cubic/Broken",
		logging.FieldAttribute: "tangents",
		logging.FieldEventType: "shape_mismatch",
		logging.FieldErrorHint: "fix tangent count",
	}
	for key, value := range want {
		if record[key] != value {
			t.Fatalf("%s = %v, want %q in %v", key, record[key], value, record)
		}
	}
}
