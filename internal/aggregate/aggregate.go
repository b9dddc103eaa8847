package aggregate

import (
	"errors"
	"log/slog"

	"github.com/phonesift/phonesift/constants"
	"github.com/phonesift/phonesift/internal/extract"
	"github.com/phonesift/phonesift/internal/report"
)

// ErrFinalized is returned when an Aggregator is used after Finalize.
// Calling Finalize twice is a programmer error and fails fast.
var ErrFinalized = errors.New("aggregator already finalized")

// Page is the retained per-image input: identifier plus recognized text.
type Page struct {
	ImageID string
	Text    string
}

type state int

const (
	stateIdle state = iota
	stateAccumulating
	stateFinalized
)

// Aggregator folds per-image extraction results into the cross-image tables.
// One instance per run, used strictly sequentially: Idle until the first Add,
// Accumulating while images arrive, Finalized exactly once at the end.
type Aggregator struct {
	st          state
	withContext bool

	records   []extract.Record
	summaries []report.SummaryRow
	texts     []report.TextRow

	logger *slog.Logger
}

func New(withContext bool, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{withContext: withContext, logger: logger}
}

// Add appends one image's results: its records, one summary row, and its
// text for the All Text sheet. Zero records is a valid outcome and still
// produces a summary row with count zero.
func (a *Aggregator) Add(page Page, recs []extract.Record) error {
	if a.st == stateFinalized {
		return ErrFinalized
	}
	a.st = stateAccumulating

	a.records = append(a.records, recs...)
	a.summaries = append(a.summaries, report.SummaryRow{
		ImageName:    page.ImageID,
		NumbersFound: len(recs),
		Status:       string(constants.StatusOK),
	})
	a.texts = append(a.texts, report.TextRow{ImageName: page.ImageID, Text: page.Text})
	return nil
}

// AddFailure records an image whose OCR failed: a summary row with the
// failure marker and zero records. The run continues with the next image.
func (a *Aggregator) AddFailure(imageID string, marker constants.ScanStatus) error {
	if a.st == stateFinalized {
		return ErrFinalized
	}
	a.st = stateAccumulating

	a.summaries = append(a.summaries, report.SummaryRow{
		ImageName: imageID,
		Status:    string(marker),
	})
	a.texts = append(a.texts, report.TextRow{ImageName: imageID})
	return nil
}

// Finalize deduplicates the accumulated records and assembles the report
// bundle. Callable exactly once; the aggregator is immutable afterwards.
func (a *Aggregator) Finalize() (*report.Bundle, error) {
	if a.st == stateFinalized {
		return nil, ErrFinalized
	}
	a.st = stateFinalized

	b := &report.Bundle{
		Unique:      Dedupe(a.records),
		Summary:     a.summaries,
		Texts:       a.texts,
		WithContext: a.withContext,
	}
	for _, r := range a.records {
		b.Numbers = append(b.Numbers, report.PhoneRow{
			ImageName:   r.ImageID,
			PhoneNumber: r.Number,
			Name:        r.Name,
			Timestamp:   r.Timestamp,
		})
	}

	a.logger.Debug("aggregate.finalized",
		"images", len(b.Summary),
		"numbers", len(b.Numbers),
		"unique", len(b.Unique),
	)
	return b, nil
}
