package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoRecords is returned when an uploaded file carries a header but no
// data rows, or an export finds nothing to write.
var ErrNoRecords = errors.New("the selected file does not contain any records")

// Table is a parsed upload: the raw header row plus data rows in file
// order. Rows may be ragged; missing trailing cells read as blank.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the trimmed value at column col of a data row, or the
// empty string when the row is shorter than the header.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadTable parses an uploaded spreadsheet by file extension: .csv via
// the CSV reader, .xlsx/.xlsm via excelize (first sheet only).
func ReadTable(filename string, r io.Reader) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", ext)
	}
}

func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return &Table{Headers: records[0], Rows: records[1:]}, nil
}

func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRecords
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}
	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}
