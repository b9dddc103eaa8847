package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phonesift/phonesift/constants"
	"github.com/phonesift/phonesift/internal/aggregate"
	"github.com/phonesift/phonesift/internal/common"
	"github.com/phonesift/phonesift/internal/extract"
	"github.com/phonesift/phonesift/internal/report"
	"github.com/phonesift/phonesift/internal/repository"
)

// RunStats summarizes one batch run.
type RunStats struct {
	Scanned uint32 // directory entries visited
	Matched uint32 // files with a scannable extension
	Failed  uint32 // images whose OCR failed
	Numbers int
	Unique  int
}

// Batch drives a whole run: walk the directory in listing order, process
// images strictly one at a time, finalize, persist history, write the
// workbook. A fresh Aggregator is created per run; nothing carries over.
type Batch struct {
	Logger  *slog.Logger
	Rec     TextRecognizer
	Ext     *extract.Extractor
	Sink    report.Sink
	History *repository.History // nil disables run history
}

// Run processes every image under dir and writes the workbook to out.
// A failing image degrades to a marked summary row; only a sink failure is
// terminal, and even then the finished bundle is returned so the caller can
// retry the write elsewhere.
func (b *Batch) Run(ctx context.Context, dir, out string) (*report.Bundle, RunStats, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, RunStats{}, errors.New("source directory is required")
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	started := time.Now()

	agg := aggregate.New(b.Ext.WithContext(), logger)
	proc := NewProcessor(logger, b.Rec, b.Ext, agg)

	var stats RunStats
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		stats.Scanned++
		if err != nil {
			if path == dir {
				// Missing or unreadable source directory fails the run.
				return err
			}
			logger.Warn("batch.walk.error", "path", path, "err", err)
			return nil // keep walking
		}
		if isHidden(path) {
			if d.IsDir() && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !constants.IsAllowedExt(ext) {
			return nil
		}
		stats.Matched++
		return proc.ProcessImage(ctx, imageID(dir, path), path)
	})
	if walkErr != nil {
		return nil, stats, common.WrapError(walkErr, "walk source directory")
	}

	bundle, err := agg.Finalize()
	if err != nil {
		return nil, stats, err
	}
	stats.Numbers = len(bundle.Numbers)
	stats.Unique = len(bundle.Unique)
	for _, row := range bundle.Summary {
		if row.Status != string(constants.StatusOK) {
			stats.Failed++
		}
	}

	status := constants.RunStatusOK
	sinkErr := b.Sink.Write(ctx, bundle, out)
	if sinkErr != nil {
		status = constants.RunStatusWriteFailed
	}

	b.recordHistory(ctx, logger, dir, out, started, bundle, stats, status)

	logger.Info("batch.run.done",
		"dir", dir,
		"out", out,
		"images", len(bundle.Summary),
		"numbers", stats.Numbers,
		"unique", stats.Unique,
		"failed", stats.Failed,
		"status", string(status),
		"elapsed_ms", time.Since(started).Milliseconds(),
	)

	if sinkErr != nil {
		return bundle, stats, common.WrapError(sinkErr, "write report")
	}
	return bundle, stats, nil
}

// recordHistory persists the run ledger. Best-effort: losing a history row
// must not fail a run whose workbook already exists.
func (b *Batch) recordHistory(ctx context.Context, logger *slog.Logger, dir, out string, started time.Time, bundle *report.Bundle, stats RunStats, status constants.RunStatus) {
	if b.History == nil {
		return
	}
	run := repository.Run{
		ID:            uuid.New(),
		SourceDir:     dir,
		OutputPath:    out,
		StartedAt:     started,
		FinishedAt:    time.Now(),
		Images:        len(bundle.Summary),
		Failed:        int(stats.Failed),
		Numbers:       stats.Numbers,
		UniqueNumbers: stats.Unique,
		Status:        status,
	}
	images := make([]repository.ImageResult, 0, len(bundle.Summary))
	for _, row := range bundle.Summary {
		images = append(images, repository.ImageResult{
			ImageName:    row.ImageName,
			NumbersFound: row.NumbersFound,
			Status:       row.Status,
		})
	}
	if err := b.History.RecordRun(ctx, run, images); err != nil {
		logger.Warn("batch.history.failed", "run_id", run.ID.String(), "err", err)
	}
}

// imageID names an image by its path relative to the scanned root, so
// same-named files in different subdirectories do not collapse into one
// summary row.
func imageID(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
