package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"usdabc/internal/config"
	"usdabc/internal/scene"
	"usdabc/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	scenePath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")

	configPath := filepath.Join(base, "usdabc.toml")
	writeTestConfig(t, configPath, cfg)

	stage := testsupport.ScenarioStage(t)
	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		scenePath:  testsupport.SaveStage(t, stage, base, "scene.yaml"),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nlog_dir = %q\nreport_dir = %q\n\n[conversion]\nworkers = %d\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.LogDir,
		cfg.Paths.ReportDir,
		cfg.Conversion.Workers,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func reportFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "report-*.json"))
	if err != nil {
		t.Fatalf("glob reports: %v", err)
	}
	return matches
}

func TestWriteReadInspectRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath := filepath.Join(env.baseDir, "scene.abcdb")

	out, _, err := runCLI(t, []string{"write", env.scenePath, archivePath}, env.configPath)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	requireContains(t, out, testsupport.RibbonsPath)
	requireContains(t, out, "velocities_dropped")
	requireContains(t, out, "2 converted")
	if got := reportFiles(t, env.cfg.Paths.ReportDir); len(got) != 1 {
		t.Fatalf("expected one saved report, got %v", got)
	}

	out, _, err = runCLI(t, []string{"inspect", archivePath}, "")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "nVertices")
	requireContains(t, out, "usdabc")

	out, _, err = runCLI(t, []string{"inspect", archivePath, "--prim", testsupport.RibbonsPath, "--time", "earliest", "--json"}, "")
	if err != nil {
		t.Fatalf("inspect --prim: %v", err)
	}
	var curves curvesView
	if err := json.Unmarshal([]byte(out), &curves); err != nil {
		t.Fatalf("decode inspect output: %v\n%s", err, out)
	}
	if curves.Points != 3 || len(curves.VertexCounts) != 1 || curves.VertexCounts[0] != 3 || curves.WidthsInterpolation != "varying" {
		t.Fatalf("unexpected curves view %+v", curves)
	}

	scenePath := filepath.Join(env.baseDir, "roundtrip.yaml")
	if _, _, err := runCLI(t, []string{"read", archivePath, scenePath}, env.configPath); err != nil {
		t.Fatalf("read: %v", err)
	}
	stage, err := scene.OpenStage(scenePath)
	if err != nil {
		t.Fatalf("open round-tripped scene: %v", err)
	}
	if stage.GetPrimAtPath(scene.MustParsePath(testsupport.TubesPath)) == nil {
		t.Fatal("tube prim missing from round-tripped scene")
	}
}

func TestReadWithoutDestinationPrintsScene(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath := filepath.Join(env.baseDir, "scene.abcdb")
	if _, _, err := runCLI(t, []string{"write", env.scenePath, archivePath}, env.configPath); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, errOut, err := runCLI(t, []string{"read", archivePath}, env.configPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	stage, err := scene.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("stdout is not a scene document: %v", err)
	}
	if stage.GetPrimAtPath(scene.MustParsePath(testsupport.RibbonsPath)) == nil {
		t.Fatal("ribbon prim missing from stdout scene")
	}
	requireContains(t, errOut, "2 converted")
}

func TestWriteFailsWhenPrimFails(t *testing.T) {
	env := setupCLITestEnv(t)
	stage := testsupport.ScenarioStage(t)
	testsupport.AddMalformed(t, stage)
	src := testsupport.SaveStage(t, stage, env.baseDir, "broken.yaml")
	archivePath := filepath.Join(env.baseDir, "broken.abcdb")

	out, _, err := runCLI(t, []string{"write", src, archivePath, "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected non-zero exit when a prim fails")
	}
	requireContains(t, err.Error(), "shape mismatch")
	requireContains(t, err.Error(), testsupport.MalformedPath)

	var doc struct {
		RunID   string `json:"run_id"`
		Summary struct {
			Converted int `json:"converted"`
			Failed    int `json:"failed"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if doc.RunID == "" || doc.Summary.Converted != 2 || doc.Summary.Failed != 1 {
		t.Fatalf("unexpected report %+v", doc)
	}
	if _, err := os.Stat(archivePath); err != nil {
		t.Fatalf("archive with the good prims should exist: %v", err)
	}
}

func TestWriteRejectsBadFlagsAndMissingScene(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath := filepath.Join(env.baseDir, "out.abcdb")

	_, _, err := runCLI(t, []string{"write", env.scenePath, archivePath, "--basis", "bspline"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown basis")
	}
	requireContains(t, err.Error(), "--basis")

	_, _, err = runCLI(t, []string{"write", filepath.Join(env.baseDir, "missing.yaml"), archivePath}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight error for missing scene")
	}
	requireContains(t, err.Error(), "preflight")
}

func TestWriteBezierBasisFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	archivePath := filepath.Join(env.baseDir, "bezier.abcdb")

	if _, _, err := runCLI(t, []string{"write", env.scenePath, archivePath, "--basis", "bezier", "--workers", "1"}, env.configPath); err != nil {
		t.Fatalf("write: %v", err)
	}
	reader := testsupport.MustOpenArchive(t, archivePath)
	infos, err := reader.Objects(t.Context())
	if err != nil {
		t.Fatalf("Objects: %v", err)
	}
	for _, info := range infos {
		if info.Path == testsupport.RibbonsPath && info.Basis != "bezier" {
			t.Fatalf("expected bezier basis, got %q", info.Basis)
		}
	}
}

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "report_dir")
	requireContains(t, out, env.cfg.Paths.ReportDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}
}
