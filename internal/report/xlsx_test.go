package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/phonesift/phonesift/constants"
)

func testBundle(withContext bool) *Bundle {
	return &Bundle{
		Numbers: []PhoneRow{
			{ImageName: "1.png", PhoneNumber: "+966501111111", Name: "Abu Khalid", Timestamp: "Friday 10:23 PM"},
			{ImageName: "2.png", PhoneNumber: "+966501111111"},
		},
		Unique: []string{"+966501111111"},
		Summary: []SummaryRow{
			{ImageName: "1.png", NumbersFound: 1, Status: string(constants.StatusOK)},
			{ImageName: "2.png", NumbersFound: 1, Status: string(constants.StatusOK)},
			{ImageName: "3.png", NumbersFound: 0, Status: string(constants.StatusUnreadable)},
		},
		Texts: []TextRow{
			{ImageName: "1.png", Text: "Abu Khalid\nFriday 10:23 PM\n+966501111111"},
			{ImageName: "2.png", Text: "+966501111111"},
			{ImageName: "3.png"},
		},
		WithContext: withContext,
	}
}

func TestXLSXSinkWrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	sink := NewXLSXSink(nil)
	if err := sink.Write(context.Background(), testBundle(true), dest); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	wantSheets := []string{
		constants.SheetNumbers,
		constants.SheetUnique,
		constants.SheetSummary,
		constants.SheetAllText,
	}
	got := f.GetSheetList()
	if len(got) != len(wantSheets) {
		t.Fatalf("sheets = %v, want %v", got, wantSheets)
	}
	for i, s := range wantSheets {
		if got[i] != s {
			t.Errorf("sheet[%d] = %q, want %q", i, got[i], s)
		}
	}

	rows, err := f.GetRows(constants.SheetNumbers)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("Phone Numbers rows = %d, want 3 (header + 2)", len(rows))
	}
	wantHeader := []string{
		constants.ColImageName,
		constants.ColPhoneNumber,
		constants.ColName,
		constants.ColTimestamp,
	}
	for i, h := range wantHeader {
		if i >= len(rows[0]) || rows[0][i] != h {
			t.Fatalf("header = %v, want %v", rows[0], wantHeader)
		}
	}
	if rows[1][0] != "1.png" || rows[1][1] != "+966501111111" || rows[1][2] != "Abu Khalid" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}

	rows, err = f.GetRows(constants.SheetUnique)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != constants.ColPhoneNumber || rows[1][0] != "+966501111111" {
		t.Errorf("unexpected Unique sheet: %v", rows)
	}

	rows, err = f.GetRows(constants.SheetSummary)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("Summary rows = %d, want 4", len(rows))
	}
	if rows[0][0] != constants.ColImageName || rows[0][1] != constants.ColNumbersFound || rows[0][2] != constants.ColStatus {
		t.Errorf("unexpected Summary header: %v", rows[0])
	}
	if rows[3][0] != "3.png" || rows[3][1] != "0" || rows[3][2] != string(constants.StatusUnreadable) {
		t.Errorf("unexpected failure row: %v", rows[3])
	}

	rows, err = f.GetRows(constants.SheetAllText)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("All Text rows = %d, want 4", len(rows))
	}
}

func TestXLSXSinkWithoutContextColumns(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	sink := NewXLSXSink(nil)
	if err := sink.Write(context.Background(), testBundle(false), dest); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(constants.SheetNumbers)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows[0]) != 2 {
		t.Fatalf("header = %v, want only Image_Name and Phone_Number", rows[0])
	}
}

func TestXLSXSinkUnwritableDest(t *testing.T) {
	sink := NewXLSXSink(nil)
	err := sink.Write(context.Background(), testBundle(true), filepath.Join(t.TempDir(), "missing", "out.xlsx"))
	if err == nil {
		t.Fatal("expected error for unwritable destination")
	}
}
