package testsupport

import (
	"path/filepath"
	"testing"

	"usdabc/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ReportDir = filepath.Join(base, "reports")
	cfgVal.Conversion.Workers = 4
	cfgVal.Archive.LockTimeoutSeconds = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithBasis selects the archive basis on the test config.
func WithBasis(basis string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Basis = basis
	}
}

// WithWorkers overrides the worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Workers = n
	}
}

// WithFailFast enables fail-fast conversion.
func WithFailFast() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.FailFast = true
	}
}

// WithMaxNativeVertices caps native vertices per archive sample.
func WithMaxNativeVertices(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.MaxNativeVertices = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
