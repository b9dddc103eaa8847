package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/phonesift/phonesift/constants"
)

// Failure taxonomy for a single image. Both are recoverable at batch level:
// the run records the failure and moves on to the next image.
var (
	ErrImageUnreadable    = errors.New("image unreadable")
	ErrRecognitionTimeout = errors.New("recognition timeout")
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Languages   string // tesseract -l value, default "eng+ara"
	TessdataDir string

	PSM int // e.g., 6 is good for a uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	Timeout       time.Duration // per-image deadline; 0 disables
	Preprocess    bool          // grayscale/upscale before OCR
	HeicConverter string        // "heif-convert" | "magick" | "sips"
}

type Result struct {
	Text     string
	Language string
	Duration time.Duration
	Warnings []string
}

// Recognizer wraps the external tesseract binary. It is the only component
// that touches image files; everything downstream works on recognized text.
type Recognizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewRecognizer(cfg Config, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = "eng+ara"
	}
	return &Recognizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

// Recognize runs OCR on one image and returns the raw recognized text.
// HEIC input is converted to PNG first; other formats go straight to tesseract.
func (r *Recognizer) Recognize(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	r.logger.Debug("starting recognition", "path", path, "ext", ext)

	if !constants.IsAllowedExt(ext) {
		return Result{}, fmt.Errorf("%w: unsupported extension %q", ErrImageUnreadable, ext)
	}

	var warns []string
	if constants.IsHEICExt(ext) {
		out, w, cleanup, err := convertHEICtoPNG(ctx, r.runner, r.cfg.HeicConverter, path)
		warns = append(warns, w...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			r.logger.Error("heic conversion failed", "path", path, "error", err)
			return Result{Warnings: warns}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
		}
		path = out
	}

	if r.cfg.Preprocess && !constants.IsHEICExt(ext) {
		out, cleanup, err := preprocessImage(path)
		if err != nil {
			// Preprocessing is best-effort; fall back to the original file.
			warns = append(warns, fmt.Sprintf("preprocess: %v", err))
		} else {
			defer cleanup()
			path = out
		}
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	txt, w, err := r.tesseractOCR(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{Warnings: warns}, fmt.Errorf("%w after %s", ErrRecognitionTimeout, time.Since(start).Round(time.Millisecond))
		}
		return Result{Warnings: warns}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}

	return Result{
		Text:     txt,
		Language: r.cfg.Languages,
		Duration: time.Since(start),
		Warnings: warns,
	}, nil
}

func (r *Recognizer) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", r.cfg.Languages}
	if r.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", r.cfg.PSM))
	}
	if r.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", r.cfg.OEM))
	}
	if r.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", r.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <langs>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
