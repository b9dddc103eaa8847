package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phonesift/phonesift/constants"
	"github.com/phonesift/phonesift/internal/aggregate"
	"github.com/phonesift/phonesift/internal/extract"
	"github.com/phonesift/phonesift/internal/ocr"
)

// TextRecognizer is what the processor needs from the OCR layer; tests stub
// it so no tesseract binary is involved.
type TextRecognizer interface {
	Recognize(ctx context.Context, path string) (ocr.Result, error)
}

// Processor runs one image through OCR -> normalize -> extract -> aggregate.
type Processor struct {
	Logger *slog.Logger
	Rec    TextRecognizer
	Ext    *extract.Extractor
	Agg    *aggregate.Aggregator
}

func NewProcessor(logger *slog.Logger, rec TextRecognizer, ext *extract.Extractor, agg *aggregate.Aggregator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Rec: rec, Ext: ext, Agg: agg}
}

// ProcessImage feeds one image into the aggregator. The id is the
// root-relative path of the image, so two files with the same basename in
// different subdirectories stay distinct in the report. An OCR failure is
// recorded with its marker and does not abort the batch; the returned error
// is only non-nil for aggregator misuse (add after finalize).
func (p *Processor) ProcessImage(ctx context.Context, id, path string) error {
	res, err := p.Rec.Recognize(ctx, path)
	if err != nil {
		marker := constants.StatusUnreadable
		if errors.Is(err, ocr.ErrRecognitionTimeout) {
			marker = constants.StatusTimeout
		}
		p.Logger.Warn("processor.ocr.failed", "image", id, "status", string(marker), "err", err)
		return p.Agg.AddFailure(id, marker)
	}

	text := extract.Normalize(res.Text)
	recs := p.Ext.Extract(id, text)
	p.Logger.Info("processor.image.ok",
		"image", id,
		"numbers", len(recs),
		"ocr_ms", res.Duration.Milliseconds(),
	)
	return p.Agg.Add(aggregate.Page{ImageID: id, Text: text}, recs)
}
