package analytics

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// chartPage pairs a page title with its renderer so the report always
// emits the four pages in the same order.
type chartPage struct {
	title  string
	render func(*Summary) ([]byte, error)
}

var reportPages = []chartPage{
	{"Gender Distribution", GenderPie},
	{"Top Diagnoses", DiagnosisBar},
	{"Top Municipalities", MunicipalityBar},
	{"Clinic Visits by Month", VisitsLine},
}

// WriteReport flattens the summary into a multi-page PDF: a totals
// header followed by one chart per page. Chart rendering failures abort
// before anything is written to w, so a broken report never leaves a
// partial file behind.
func WriteReport(s *Summary, generatedAt time.Time, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Patient Analytics", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, "Generated on "+generatedAt.Format("January 2, 2006 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if s.Total == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, "No patient records available for analytics.", "", 1, "C", false, 0, "")
		return pdf.Output(w)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Patients: %d", s.Total), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Most Recent Visit: "+s.LatestVisit, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	for i, page := range reportPages {
		png, err := page.render(s)
		if err != nil {
			return fmt.Errorf("render %s chart: %w", page.title, err)
		}

		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, page.title, "", 1, "C", false, 0, "")
		pdf.Ln(4)

		if png == nil {
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 7, "No data available for this chart.", "", "L", false)
			continue
		}

		name := fmt.Sprintf("chart-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
		width, _ := pdf.GetPageSize()
		pdf.ImageOptions(name, 10, 0, width-20, 0, true, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
