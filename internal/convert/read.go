package convert

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"usdabc/internal/archive"
	"usdabc/internal/logging"
	"usdabc/internal/scene"
)

// OpenArchiveStage reads the archive at path into a new in-memory stage.
func OpenArchiveStage(ctx context.Context, path string, opts Options) (*scene.Stage, *Report, error) {
	reader, err := archive.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()
	return ReadArchive(ctx, reader, opts)
}

// ReadArchive converts every object of reader onto a new stage. Objects are
// loaded in parallel and authored in path order.
func ReadArchive(ctx context.Context, reader *archive.Reader, opts Options) (*scene.Stage, *Report, error) {
	report := newReport(DirectionRead, reader.Path(), "")
	report.ArchiveID = reader.Info().ID.String()
	ctx = logging.WithRunID(ctx, report.RunID.String())
	logger := logging.WithContext(ctx, opts.logger())

	infos, err := reader.Objects(ctx)
	if err != nil {
		return nil, nil, err
	}
	objects := make([]*archive.Object, len(infos))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.workers())
	for i, info := range infos {
		group.Go(func() error {
			obj, err := reader.Object(groupCtx, info.Path)
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load archive objects: %w", err)
	}

	stage := scene.NewStage()
	report.Prims = make([]PrimResult, 0, len(objects))
	for _, obj := range objects {
		if report.Aborted {
			report.Prims = append(report.Prims, PrimResult{Path: obj.Path, Type: obj.SourceType, Status: StatusSkipped})
			continue
		}
		result := readObject(stage, obj)
		primLogger := logger.With(logging.Prim(obj.Path))
		logIssues(primLogger, result.Issues)
		if result.err != nil {
			logFailure(primLogger, result)
			if opts.FailFast {
				report.Aborted = true
			}
		}
		report.Prims = append(report.Prims, result)
	}
	report.FinishedAt = time.Now().UTC()
	logSummary(logger, report)
	return stage, report, nil
}

func readObject(stage *scene.Stage, obj *archive.Object) PrimResult {
	result := PrimResult{Path: obj.Path, Type: obj.SourceType}
	switch obj.Schema {
	case archive.SchemaCurves:
		issues, err := DecodeObject(stage, obj)
		result.Issues = issues
		if err != nil {
			result.fail(err)
			return result
		}
		result.Status = StatusConverted
		result.Curves, result.Samples = curveStats(*obj)
	default:
		path, err := scene.ParsePath(obj.Path)
		if err == nil {
			_, err = stage.DefinePrim(path, obj.SourceType)
		}
		if err != nil {
			result.fail(err)
			return result
		}
		result.Status = StatusHierarchy
	}
	return result
}
