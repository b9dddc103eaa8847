package extract

import (
	"reflect"
	"testing"
)

func newTestExtractor(withContext bool) *Extractor {
	return NewExtractor(Config{
		DefaultCountryCode: "+966",
		ContextLines:       3,
		WithContext:        withContext,
	}, nil)
}

func numbers(recs []Record) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Number)
	}
	return out
}

func TestExtractCanonicalization(t *testing.T) {
	e := newTestExtractor(false)
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "spaced international",
			in:   "+966 50 443 5170",
			want: []string{"+966504435170"},
		},
		{
			name: "compact international",
			in:   "+966504435170",
			want: []string{"+966504435170"},
		},
		{
			name: "bare country code gains plus",
			in:   "966 50 443 5170",
			want: []string{"+966504435170"},
		},
		{
			name: "local zero replaced by default country code",
			in:   "0504435170",
			want: []string{"+966504435170"},
		},
		{
			name: "foreign country code kept",
			in:   "+971501234567",
			want: []string{"+971501234567"},
		},
		{
			name: "over-long digit run rejected",
			in:   "+96650443517012345678",
			want: nil,
		},
		{
			name: "no numbers",
			in:   "hello there, call me sometime",
			want: nil,
		},
		{
			name: "empty text",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numbers(e.Extract("img.png", tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) numbers = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractOrderTopToBottomLeftToRight(t *testing.T) {
	e := newTestExtractor(false)
	text := "call +966501111111 or +966502222222\n+966503333333 is best"
	got := numbers(e.Extract("1.png", text))
	want := []string{"+966501111111", "+966502222222", "+966503333333"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestExtractLocalAndIntlCollapseToSameCanonical(t *testing.T) {
	e := newTestExtractor(false)
	recs := e.Extract("1.png", "Call me +966504435170 or 0504435170")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Number != "+966504435170" || recs[1].Number != "+966504435170" {
		t.Fatalf("canonical numbers = %q, %q; want both +966504435170", recs[0].Number, recs[1].Number)
	}
}

func TestExtractRecordCarriesImageID(t *testing.T) {
	e := newTestExtractor(false)
	recs := e.Extract("shot-7.png", "0504435170")
	if len(recs) != 1 || recs[0].ImageID != "shot-7.png" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}

func TestExtractContextBlock(t *testing.T) {
	e := newTestExtractor(true)

	text := "Abu Khalid\nFriday 10:23 PM\n+966504435170"
	recs := e.Extract("1.png", text)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "Abu Khalid" {
		t.Errorf("Name = %q, want %q", recs[0].Name, "Abu Khalid")
	}
	if recs[0].Timestamp != "Friday 10:23 PM" {
		t.Errorf("Timestamp = %q, want %q", recs[0].Timestamp, "Friday 10:23 PM")
	}
}

func TestExtractContextBlankLineBoundary(t *testing.T) {
	e := newTestExtractor(true)

	// the blank line separates Umm Fahad's block from the earlier one
	text := "Abu Khalid\n+966501111111\n\nUmm Fahad\n0502222222"
	recs := e.Extract("1.png", text)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Name != "Abu Khalid" {
		t.Errorf("first Name = %q, want %q", recs[0].Name, "Abu Khalid")
	}
	if recs[1].Name != "Umm Fahad" {
		t.Errorf("second Name = %q, want %q", recs[1].Name, "Umm Fahad")
	}
}

func TestExtractContextPreviousNumberBoundary(t *testing.T) {
	e := newTestExtractor(true)

	// no blank line: the line holding the first number still closes its block
	text := "Abu Khalid\n+966501111111\nUmm Fahad\n0502222222"
	recs := e.Extract("1.png", text)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Name != "Umm Fahad" {
		t.Errorf("second Name = %q, want %q", recs[1].Name, "Umm Fahad")
	}
}

func TestExtractContextAbsentIsNotAnError(t *testing.T) {
	e := newTestExtractor(true)
	recs := e.Extract("1.png", "+966504435170")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "" || recs[0].Timestamp != "" {
		t.Errorf("expected empty context, got Name=%q Timestamp=%q", recs[0].Name, recs[0].Timestamp)
	}
}

func TestExtractContextLinesZeroDisablesLookback(t *testing.T) {
	e := NewExtractor(Config{
		DefaultCountryCode: "+966",
		ContextLines:       0,
		WithContext:        true,
	}, nil)

	recs := e.Extract("1.png", "Abu Khalid\n+966504435170")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "" {
		t.Errorf("Name = %q, want empty with zero context lines", recs[0].Name)
	}
}

func TestExtractContextLinesNegativeUsesDefault(t *testing.T) {
	e := NewExtractor(Config{
		DefaultCountryCode: "+966",
		ContextLines:       -1,
		WithContext:        true,
	}, nil)

	recs := e.Extract("1.png", "Abu Khalid\n+966504435170")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "Abu Khalid" {
		t.Errorf("Name = %q, want %q", recs[0].Name, "Abu Khalid")
	}
}

func TestExtractContextNonLatinName(t *testing.T) {
	e := newTestExtractor(true)
	recs := e.Extract("1.png", "أبو خالد\n+966504435170")
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Name != "أبو خالد" {
		t.Errorf("Name = %q, want the Arabic original", recs[0].Name)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := newTestExtractor(true)
	text := "Abu Khalid\nFriday 10:23 PM\n+966504435170 or 0501234567"
	a := e.Extract("1.png", text)
	b := e.Extract("1.png", text)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extraction not deterministic:\n%+v\n%+v", a, b)
	}
}
