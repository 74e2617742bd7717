package parser

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func newTestReader(t *testing.T, cells map[string]interface{}) *CellReader {
	t.Helper()

	f := excelize.NewFile()
	for ref, value := range cells {
		if err := f.SetCellValue("Sheet1", ref, value); err != nil {
			t.Fatalf("set %s: %v", ref, err)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return NewCellReader(f, "Sheet1")
}

func TestCellReader_MissingCell(t *testing.T) {
	r := newTestReader(t, nil)

	if got := r.Raw("Z99"); got != "" {
		t.Errorf("missing cell raw: got %q", got)
	}
	if got := r.Float("Z99"); got != 0 {
		t.Errorf("missing cell float: got %v", got)
	}
	if got := r.Date("Z99"); got != nil {
		t.Errorf("missing cell date: got %v", got)
	}
}

func TestCellReader_Float(t *testing.T) {
	r := newTestReader(t, map[string]interface{}{
		"A1": 3.5,
		"A2": "12",
		"A3": "not a number",
	})

	if got := r.Float("A1"); got != 3.5 {
		t.Errorf("A1: got %v", got)
	}
	if got := r.Float("A2"); got != 12 {
		t.Errorf("A2: got %v", got)
	}
	if got := r.Float("A3"); got != 0 {
		t.Errorf("unparseable defaults to 0, got %v", got)
	}
}

func TestCellReader_FloatCommaDecimal(t *testing.T) {
	r := newTestReader(t, map[string]interface{}{
		"A1": "3,5",       // French decimal
		"A2": "0,25",      //
		"A3": "3,5,6",     // more than one comma is not a number
		"A4": "1,234.5",   // mixed separators are not accepted
		"A5": "charge: 2", //
	})

	if got := r.Float("A1"); got != 3.5 {
		t.Errorf("comma decimal: got %v, want 3.5", got)
	}
	if got := r.Float("A2"); got != 0.25 {
		t.Errorf("comma decimal: got %v, want 0.25", got)
	}
	for _, ref := range []string{"A3", "A4", "A5"} {
		if got := r.Float(ref); got != 0 {
			t.Errorf("%s: non-numeric must default to 0, got %v", ref, got)
		}
	}
}

func TestParseDate_ShortFormDayFirst(t *testing.T) {
	got := ParseDate("15-03-24")
	if got == nil || got.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("short form must read day-month-year: got %v", got)
	}
}

func TestCellReader_DateSerial(t *testing.T) {
	r := newTestReader(t, map[string]interface{}{
		"A1": time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		"A2": "2024-01-08",
	})

	for _, ref := range []string{"A1", "A2"} {
		got := r.Date(ref)
		if got == nil || got.Format("2006-01-02") != "2024-01-08" {
			t.Errorf("%s: got %v", ref, got)
		}
	}
}

func TestCellReader_FindRightOfLabel(t *testing.T) {
	r := newTestReader(t, map[string]interface{}{
		"A6": "Demandeur",
		"C6": "Marie Curie", // first non-empty within the window, B6 blank
		"A8": "Orphan",
	})

	if got := r.FindRightOfLabel("A6", 5); got != "Marie Curie" {
		t.Errorf("label value: got %q", got)
	}
	// label present but no value within the window
	if got := r.FindRightOfLabel("A8", 5); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	// no label at all
	if got := r.FindRightOfLabel("A9", 5); got != "" {
		t.Errorf("expected empty for missing label, got %q", got)
	}
}
