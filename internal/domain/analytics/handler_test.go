package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/schoolclinic/cms/internal/domain/patient"
)

func doGet(t *testing.T, h echo.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestHandlerGetSummary(t *testing.T) {
	src := &stubSource{rows: []*patient.Patient{
		row("Male", "1 Mabini St, Poblacion, Santa Rosa, Laguna", "Flu", "3/7/2024"),
		row("Female", "2 Rizal Ave, San Isidro, Cabuyao, Laguna", "Fever", "2/1/2024"),
	}}
	h := NewHandler(NewService(src))

	rec := doGet(t, h.GetSummary, "/analytics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var s Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Total != 2 {
		t.Errorf("total = %d, want 2", s.Total)
	}
	if s.LatestVisit != "March 07, 2024" {
		t.Errorf("latest visit = %q", s.LatestVisit)
	}
}

func TestHandlerGetReport(t *testing.T) {
	src := &stubSource{rows: []*patient.Patient{
		row("Male", "1 Mabini St, Poblacion, Santa Rosa, Laguna", "Flu", "3/7/2024"),
		row("Female", "2 Rizal Ave, San Isidro, Cabuyao, Laguna", "Fever", "2/1/2024"),
	}}
	h := NewHandler(NewService(src))

	rec := doGet(t, h.GetReport, "/analytics/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "application/pdf") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition = %q", cd)
	}
}
