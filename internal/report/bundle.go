package report

import "context"

// PhoneRow is one row of the Phone Numbers sheet.
type PhoneRow struct {
	ImageName   string
	PhoneNumber string
	Name        string
	Timestamp   string
}

// SummaryRow is one row of the Summary sheet: one per processed image,
// including images that yielded nothing or failed OCR.
type SummaryRow struct {
	ImageName    string
	NumbersFound int
	Status       string
}

// TextRow is one row of the All Text sheet.
type TextRow struct {
	ImageName string
	Text      string
}

// Bundle is the finished set of output tables for one run. Constructed once
// at finalize time and never mutated afterwards.
type Bundle struct {
	Numbers []PhoneRow
	Unique  []string
	Summary []SummaryRow
	Texts   []TextRow

	// WithContext selects whether the Phone Numbers sheet carries the
	// Name/Timestamp columns.
	WithContext bool
}

// Sink persists a finished Bundle. A write failure is terminal for the run;
// the caller still holds the Bundle and may retry elsewhere.
type Sink interface {
	Write(ctx context.Context, b *Bundle, dest string) error
}
