package convert

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"usdabc/internal/config"
	"usdabc/internal/hermite"
	"usdabc/internal/logging"
)

// WriterName is recorded in the metadata of every archive this package writes.
const WriterName = "usdabc"

// Options control a conversion run. The zero value converts with the hermite
// basis, one worker per CPU, and no fail-fast.
type Options struct {
	Basis             hermite.Basis
	Workers           int
	MaxNativeVertices int
	FailFast          bool
	LockTimeout       time.Duration
	// Source names the scene being written; WriteArchive fills it in.
	Source string
	Logger *slog.Logger
}

// OptionsFromConfig maps configuration onto conversion options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) (Options, error) {
	if cfg == nil {
		return Options{Logger: logger}, nil
	}
	basis, err := hermite.ParseBasis(cfg.Conversion.Basis)
	if err != nil {
		return Options{}, fmt.Errorf("conversion.basis: %w", err)
	}
	return Options{
		Basis:             basis,
		Workers:           cfg.Conversion.Workers,
		MaxNativeVertices: cfg.Archive.MaxNativeVertices,
		FailFast:          cfg.Conversion.FailFast,
		LockTimeout:       time.Duration(cfg.Archive.LockTimeoutSeconds) * time.Second,
		Logger:            logger,
	}, nil
}

func (o Options) codec() hermite.Codec {
	basis := o.Basis
	if basis == "" {
		basis = hermite.BasisHermite
	}
	return hermite.Codec{Basis: basis, MaxNativeVertices: o.MaxNativeVertices}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return max(runtime.NumCPU(), 1)
}

func (o Options) logger() *slog.Logger {
	return logging.NewComponentLogger(o.Logger, "convert")
}
