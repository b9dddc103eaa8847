package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/phonesift/phonesift/constants"
)

const historyFile = "phonesift.db"

// Run is one recorded batch run.
type Run struct {
	ID            uuid.UUID
	SourceDir     string
	OutputPath    string
	StartedAt     time.Time
	FinishedAt    time.Time
	Images        int
	Failed        int
	Numbers       int
	UniqueNumbers int
	Status        constants.RunStatus
}

// ImageResult is the per-image outcome stored alongside a run.
type ImageResult struct {
	ImageName    string
	NumbersFound int
	Status       string
}

// History is the SQLite-backed run ledger. One database file holds every run
// so past batches stay queryable after their workbooks are moved or deleted.
type History struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the history database under dir.
func Open(dir string, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	path := filepath.Join(dir, historyFile)

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &History{db: db, path: path, logger: logger}
	if err := h.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return h, nil
}

func (h *History) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	source_dir     TEXT NOT NULL,
	output_path    TEXT NOT NULL,
	started_at     TIMESTAMP NOT NULL,
	finished_at    TIMESTAMP NOT NULL,
	images         INTEGER NOT NULL,
	failed         INTEGER NOT NULL,
	numbers        INTEGER NOT NULL,
	unique_numbers INTEGER NOT NULL,
	status         TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_images (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	image_name    TEXT NOT NULL,
	numbers_found INTEGER NOT NULL,
	status        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_images_run ON run_images(run_id);`
	if _, err := h.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// RecordRun inserts a run and its per-image rows in one transaction.
func (h *History) RecordRun(ctx context.Context, run Run, images []ImageResult) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source_dir, output_path, started_at, finished_at,
			images, failed, numbers, unique_numbers, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.SourceDir, run.OutputPath,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Images, run.Failed, run.Numbers, run.UniqueNumbers, string(run.Status),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, img := range images {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_images (run_id, image_name, numbers_found, status) VALUES (?, ?, ?, ?)`,
			run.ID.String(), img.ImageName, img.NumbersFound, img.Status,
		); err != nil {
			return fmt.Errorf("insert run image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	h.logger.Debug("history.run.recorded", "run_id", run.ID.String(), "images", len(images))
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (h *History) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, source_dir, output_path, started_at, finished_at,
			images, failed, numbers, unique_numbers, status
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var r Run
		var id, status string
		if err := rows.Scan(&id, &r.SourceDir, &r.OutputPath, &r.StartedAt, &r.FinishedAt,
			&r.Images, &r.Failed, &r.Numbers, &r.UniqueNumbers, &status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id: %w", err)
		}
		r.Status = constants.RunStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListImages returns the per-image rows for one run, insertion order.
func (h *History) ListImages(ctx context.Context, runID uuid.UUID) ([]ImageResult, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT image_name, numbers_found, status FROM run_images WHERE run_id = ? ORDER BY rowid`,
		runID.String())
	if err != nil {
		return nil, fmt.Errorf("query run images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ImageResult
	for rows.Next() {
		var img ImageResult
		if err := rows.Scan(&img.ImageName, &img.NumbersFound, &img.Status); err != nil {
			return nil, fmt.Errorf("scan run image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}
