package bulk

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/schoolclinic/cms/internal/domain/patient"
	"github.com/schoolclinic/cms/pkg/normalize"
)

// exportHeaders are the display column names the original files carry;
// imports accept them back because the column matcher strips case and
// punctuation.
var exportHeaders = []string{
	"Patient ID",
	"Name",
	"Mobile No.",
	"Email",
	"Address",
	"Gender",
	"Date of Birth",
	"Diagnosis",
	"Visit Date",
}

// exportRow flattens one record into the nine display columns. The
// mobile number is re-normalized at export time; values the normalizer
// rejects are written back as stored.
func exportRow(p *patient.Patient) []string {
	mobile := p.Mobile
	if m, ok := normalize.Mobile(p.Mobile); ok {
		mobile = m
	}
	return []string{
		p.ID,
		p.Name,
		mobile,
		p.Email,
		p.Address.String(),
		p.Gender,
		p.DOB.String(),
		p.Diagnosis,
		p.VisitDate.String(),
	}
}

// WriteCSV dumps the rows as a CSV document with the display header.
func WriteCSV(w io.Writer, rows []*patient.Patient) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return err
	}
	for _, p := range rows {
		if err := cw.Write(exportRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX dumps the rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []*patient.Patient) error {
	if len(rows) == 0 {
		return ErrNoRecords
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if err := writeRow(1, exportHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, p := range rows {
		if err := writeRow(i+2, exportRow(p)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
