package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"usdabc/internal/archive"
	"usdabc/internal/faults"
	"usdabc/internal/geom"
	"usdabc/internal/hermite"
	"usdabc/internal/logging"
	"usdabc/internal/scene"
)

// WriteArchive converts every prim of the scene document at src into a new
// archive at dst. The returned report lists every prim; the error is non-nil
// only when the run itself could not complete.
func WriteArchive(ctx context.Context, src, dst string, opts Options) (*Report, error) {
	stage, err := scene.OpenStage(src)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	if opts.Source == "" {
		opts.Source = src
	}
	return WriteStage(ctx, stage, dst, opts)
}

// WriteStage converts every prim of stage into a new archive at dst. Prims
// are converted in parallel, each by one worker, and committed through a
// single exclusive archive writer.
func WriteStage(ctx context.Context, stage *scene.Stage, dst string, opts Options) (*Report, error) {
	codec := opts.codec()
	report := newReport(DirectionWrite, opts.Source, dst)
	report.Basis = string(codec.Basis)
	ctx = logging.WithRunID(ctx, report.RunID.String())
	logger := logging.WithContext(ctx, opts.logger())

	writer, err := archive.Create(ctx, dst, archive.WriterOptions{
		Writer:      WriterName,
		Source:      opts.Source,
		LockTimeout: opts.LockTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	report.ArchiveID = writer.ID().String()
	logger.Info("archive write started",
		logging.String("archive", dst),
		logging.String("basis", report.Basis),
		logging.Int("workers", opts.workers()),
	)

	prims := stage.Traverse()
	results := make([]PrimResult, len(prims))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.workers())
	for i, prim := range prims {
		results[i] = PrimResult{Path: prim.Path().String(), Type: prim.TypeName(), Status: StatusSkipped}
		if groupCtx.Err() != nil {
			continue
		}
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			results[i] = writePrim(ctx, writer, prim, codec, logger)
			if opts.FailFast && results[i].err != nil {
				return results[i].err
			}
			return nil
		})
	}
	waitErr := group.Wait()
	closeErr := writer.Close()

	report.Prims = results
	report.FinishedAt = time.Now().UTC()
	report.Aborted = waitErr != nil
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if closeErr != nil {
		return report, fmt.Errorf("close archive: %w", closeErr)
	}
	logSummary(logger, report)
	return report, nil
}

// writePrim converts one prim and commits it. Curve prims become curves
// objects; every other prim is kept as a hierarchy-only object.
func writePrim(ctx context.Context, writer *archive.Writer, prim *scene.Prim, codec hermite.Codec, base *slog.Logger) PrimResult {
	path := prim.Path().String()
	logger := base.With(logging.Prim(path))
	result := PrimResult{Path: path, Type: prim.TypeName()}

	var obj archive.Object
	if curves, ok := geom.NewHermiteCurves(prim); ok {
		encoded, issues, err := EncodePrim(curves, codec)
		result.Issues = issues
		logIssues(logger, issues)
		if err != nil {
			result.fail(err)
			logFailure(logger, result)
			return result
		}
		obj = encoded
		result.Status = StatusConverted
		result.Curves, result.Samples = curveStats(obj)
	} else {
		obj = archive.Object{
			Path:       path,
			Parent:     prim.Path().Parent().String(),
			Schema:     archive.SchemaXform,
			SourceType: prim.TypeName(),
		}
		result.Status = StatusHierarchy
	}

	if err := writer.CommitObject(ctx, obj); err != nil {
		result.Curves, result.Samples = 0, 0
		result.fail(err)
		logFailure(logger, result)
		return result
	}
	logger.Debug("prim committed",
		logging.String("status", string(result.Status)),
		logging.Int("curves", result.Curves),
		logging.Int("samples", result.Samples),
	)
	return result
}

func curveStats(obj archive.Object) (curves, samples int) {
	if prop := obj.Property(PropVertexCounts); prop != nil && len(prop.Samples) > 0 {
		curves = len(prop.Samples[0].Int32)
	}
	if prop := obj.Property(PropPositions); prop != nil {
		samples = len(prop.Samples)
	}
	return curves, samples
}

func logIssues(logger *slog.Logger, issues []Issue) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityWarning:
			logging.WarnWithContext(logger, "attribute degraded during conversion", issue.Kind,
				logging.Attribute(issue.Attribute),
				logging.String("reason", issue.Message),
				logging.String(logging.FieldErrorHint, issueHint(issue.Kind)),
			)
		case SeverityInfo:
			logger.Info(issue.Message,
				logging.String(logging.FieldEventType, issue.Kind),
				logging.Attribute(issue.Attribute),
			)
		}
	}
}

func logFailure(logger *slog.Logger, result PrimResult) {
	logging.ErrorWithContext(logger, "prim conversion failed", result.err.ErrorKind(),
		logging.Error(result.err.Err),
		logging.String(logging.FieldErrorHint, "fix the prim's attribute arrays; other prims are unaffected"),
	)
}

func logSummary(logger *slog.Logger, report *Report) {
	summary := report.Summary()
	attrs := []logging.Attr{
		logging.Int("converted", summary.Converted),
		logging.Int("hierarchy", summary.Hierarchy),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("warnings", summary.Warnings),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	}
	if report.HasErrors() {
		logging.WarnWithContext(logger, "conversion finished with failed prims", "conversion_incomplete",
			append(attrs,
				logging.String(logging.FieldErrorHint, "see the report for per-prim errors"),
				logging.String(logging.FieldImpact, "failed prims are missing from the output"),
			)...,
		)
		return
	}
	logger.Info("conversion finished", logging.Args(attrs...)...)
}

func issueHint(kind string) string {
	switch kind {
	case KindBasisPrecision:
		return "write with the hermite basis or move the curves nearer the origin"
	case string(faults.KindTimeResolutionAmbiguity):
		return "author a numeric sample time on the source"
	default:
		return "author a supported interpolation token on the source"
	}
}
