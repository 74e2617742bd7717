package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellReader reads typed values from one sheet of a loaded workbook.
// A missing cell is a normal outcome for every accessor, never an error:
// the fiche layout leaves most of the grid blank.
type CellReader struct {
	file  *excelize.File
	sheet string
}

// NewCellReader creates a reader bound to a sheet.
func NewCellReader(file *excelize.File, sheet string) *CellReader {
	return &CellReader{file: file, sheet: sheet}
}

// Raw returns the raw (unformatted) cell value, trimmed. Empty string for
// an absent cell. Raw mode keeps date cells as their numeric serials so
// Date can convert them without fighting number formats.
func (r *CellReader) Raw(ref string) string {
	value, err := r.file.GetCellValue(r.sheet, ref, excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// String returns the formatted cell value, trimmed.
func (r *CellReader) String(ref string) string {
	value, err := r.file.GetCellValue(r.sheet, ref)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// Float returns the cell parsed as a number, or 0 when absent/unparseable.
// French sheets write decimals with a comma, so a single comma between
// digits reads as the decimal separator ("3,5" is 3.5, not 35).
func (r *CellReader) Float(ref string) float64 {
	value := r.Raw(ref)
	if value == "" {
		return 0
	}
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// dateLayouts are the textual date forms accepted for string-typed cells.
// Short forms are day-first, matching how the sheets are filled in.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-06",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
}

// Date returns the cell as a date, or nil when absent or unparseable.
func (r *CellReader) Date(ref string) *time.Time {
	return CoerceDate(r.Raw(ref))
}

// CoerceDate converts a raw cell value to a date. Numeric values are
// treated as Excel date serials; strings are tried against the known
// layouts. Nil when empty or nothing matches.
func CoerceDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		return &t
	}

	return ParseDate(value)
}

// ParseDate parses a textual date, returning nil when no layout matches.
func ParseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// FindRightOfLabel scans up to maxOffset cells immediately to the right of
// labelRef and returns the first non-empty value, or "" when the label cell
// itself is empty or no value is found within the window.
func (r *CellReader) FindRightOfLabel(labelRef string, maxOffset int) string {
	if r.Raw(labelRef) == "" {
		return ""
	}

	col, row, err := excelize.CellNameToCoordinates(labelRef)
	if err != nil {
		return ""
	}

	for offset := 1; offset <= maxOffset; offset++ {
		ref, err := excelize.CoordinatesToCellName(col+offset, row)
		if err != nil {
			continue
		}
		if value := r.Raw(ref); value != "" {
			return value
		}
	}
	return ""
}
