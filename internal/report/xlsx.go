package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/phonesift/phonesift/constants"
)

// XLSXSink renders a Bundle as a four-sheet workbook.
type XLSXSink struct {
	logger *slog.Logger
}

func NewXLSXSink(logger *slog.Logger) *XLSXSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXSink{logger: logger}
}

// Write renders the workbook and writes it to dest.
func (s *XLSXSink) Write(ctx context.Context, b *Bundle, dest string) error {
	start := time.Now()

	buf, err := s.bytes(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, buf, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"dest", dest,
		"numbers", len(b.Numbers),
		"unique", len(b.Unique),
		"images", len(b.Summary),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *XLSXSink) bytes(b *Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// the default sheet becomes the first table
	if err := f.SetSheetName(f.GetSheetName(0), constants.SheetNumbers); err != nil {
		return nil, err
	}
	for _, sheet := range []string{constants.SheetUnique, constants.SheetSummary, constants.SheetAllText} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	if idx, err := f.GetSheetIndex(constants.SheetNumbers); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := s.writeNumbers(f, b); err != nil {
		return nil, err
	}
	if err := s.writeUnique(f, b); err != nil {
		return nil, err
	}
	if err := s.writeSummary(f, b); err != nil {
		return nil, err
	}
	if err := s.writeTexts(f, b); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *XLSXSink) writeNumbers(f *excelize.File, b *Bundle) error {
	headers := []string{constants.ColImageName, constants.ColPhoneNumber}
	if b.WithContext {
		headers = append(headers, constants.ColName, constants.ColTimestamp)
	}
	if err := writeHeader(f, constants.SheetNumbers, headers); err != nil {
		return err
	}
	for i, r := range b.Numbers {
		row := i + 2
		writeCell(f, constants.SheetNumbers, 1, row, r.ImageName)
		writeCell(f, constants.SheetNumbers, 2, row, r.PhoneNumber)
		if b.WithContext {
			writeCell(f, constants.SheetNumbers, 3, row, r.Name)
			writeCell(f, constants.SheetNumbers, 4, row, r.Timestamp)
		}
	}
	_ = f.SetColWidth(constants.SheetNumbers, "A", "A", 24)
	_ = f.SetColWidth(constants.SheetNumbers, "B", "B", 18)
	if b.WithContext {
		_ = f.SetColWidth(constants.SheetNumbers, "C", "C", 28)
		_ = f.SetColWidth(constants.SheetNumbers, "D", "D", 22)
	}
	return nil
}

func (s *XLSXSink) writeUnique(f *excelize.File, b *Bundle) error {
	if err := writeHeader(f, constants.SheetUnique, []string{constants.ColPhoneNumber}); err != nil {
		return err
	}
	for i, n := range b.Unique {
		writeCell(f, constants.SheetUnique, 1, i+2, n)
	}
	_ = f.SetColWidth(constants.SheetUnique, "A", "A", 18)
	return nil
}

func (s *XLSXSink) writeSummary(f *excelize.File, b *Bundle) error {
	headers := []string{constants.ColImageName, constants.ColNumbersFound, constants.ColStatus}
	if err := writeHeader(f, constants.SheetSummary, headers); err != nil {
		return err
	}
	for i, r := range b.Summary {
		row := i + 2
		writeCell(f, constants.SheetSummary, 1, row, r.ImageName)
		writeCell(f, constants.SheetSummary, 2, row, r.NumbersFound)
		writeCell(f, constants.SheetSummary, 3, row, r.Status)
	}
	_ = f.SetColWidth(constants.SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(constants.SheetSummary, "B", "C", 14)
	return nil
}

func (s *XLSXSink) writeTexts(f *excelize.File, b *Bundle) error {
	headers := []string{constants.ColImageName, constants.ColText}
	if err := writeHeader(f, constants.SheetAllText, headers); err != nil {
		return err
	}
	for i, r := range b.Texts {
		row := i + 2
		writeCell(f, constants.SheetAllText, 1, row, r.ImageName)
		writeCell(f, constants.SheetAllText, 2, row, r.Text)
	}
	_ = f.SetColWidth(constants.SheetAllText, "A", "A", 24)
	_ = f.SetColWidth(constants.SheetAllText, "B", "B", 80)
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}
