package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/schoolclinic/cms/internal/domain/patient"
)

type stubSource struct {
	rows []*patient.Patient
	err  error
}

func (s *stubSource) ListAll(ctx context.Context) ([]*patient.Patient, error) {
	return s.rows, s.err
}

func row(gender, address, diagnosis, visit string) *patient.Patient {
	return &patient.Patient{
		Gender:    gender,
		Address:   patient.ParseAddress(address),
		Diagnosis: diagnosis,
		VisitDate: patient.ParseDate(visit),
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	if s.Total != 0 {
		t.Fatalf("total = %d, want 0", s.Total)
	}
	if len(s.Genders) != 0 || len(s.Municipalities) != 0 || len(s.Diagnoses) != 0 {
		t.Fatalf("expected empty frequency lists, got %+v", s)
	}
	if len(s.VisitsByMonth) != 0 {
		t.Fatalf("expected empty month series, got %v", s.VisitsByMonth)
	}
	if s.LatestVisit != NoVisits {
		t.Fatalf("latest visit = %q, want %q", s.LatestVisit, NoVisits)
	}
}

func TestComputeBuckets(t *testing.T) {
	rows := []*patient.Patient{
		row("male", "1 Mabini St, Poblacion, Santa Rosa, Laguna", "flu", "3/7/2024"),
		row("MALE", "2 Rizal Ave, San Isidro, Santa Rosa, Laguna", "Flu", "3/9/2024"),
		row("Female", "3 Luna St, Bagong Silang, Cabuyao, Laguna", "fever", "2/1/2024"),
		row("", "short address", "", "not a date"),
	}
	s := Compute(rows)

	if s.Total != 4 {
		t.Fatalf("total = %d, want 4", s.Total)
	}

	wantGenders := []Count{{"Male", 2}, {"Female", 1}, {"Unspecified", 1}}
	if len(s.Genders) != len(wantGenders) {
		t.Fatalf("genders = %v", s.Genders)
	}
	for i, want := range wantGenders {
		if s.Genders[i] != want {
			t.Errorf("genders[%d] = %v, want %v", i, s.Genders[i], want)
		}
	}

	wantMun := []Count{{"Santa Rosa", 2}, {"Cabuyao", 1}, {"Unspecified", 1}}
	for i, want := range wantMun {
		if s.Municipalities[i] != want {
			t.Errorf("municipalities[%d] = %v, want %v", i, s.Municipalities[i], want)
		}
	}

	wantDiag := []Count{{"Flu", 2}, {"Fever", 1}, {"Unspecified", 1}}
	for i, want := range wantDiag {
		if s.Diagnoses[i] != want {
			t.Errorf("diagnoses[%d] = %v, want %v", i, s.Diagnoses[i], want)
		}
	}
}

func TestComputeMonthSeries(t *testing.T) {
	rows := []*patient.Patient{
		row("Male", "", "Flu", "12/5/2023"),
		row("Male", "", "Flu", "1/15/2024"),
		row("Male", "", "Flu", "1/20/2024"),
		row("Male", "", "Flu", "garbage"),
	}
	s := Compute(rows)

	want := []MonthCount{
		{Key: "2023-12", Label: "December 2023", Count: 1},
		{Key: "2024-01", Label: "January 2024", Count: 2},
	}
	if len(s.VisitsByMonth) != len(want) {
		t.Fatalf("month series = %v", s.VisitsByMonth)
	}
	for i, w := range want {
		if s.VisitsByMonth[i] != w {
			t.Errorf("month[%d] = %v, want %v", i, s.VisitsByMonth[i], w)
		}
	}
	if s.LatestVisit != "January 20, 2024" {
		t.Errorf("latest visit = %q, want %q", s.LatestVisit, "January 20, 2024")
	}
}

func TestLatestVisitZeroPadsDay(t *testing.T) {
	s := Compute([]*patient.Patient{
		row("Male", "1 Mabini St, Poblacion, Santa Rosa, Laguna", "Flu", "3/7/2024"),
	})
	if s.LatestVisit != "March 07, 2024" {
		t.Errorf("latest visit = %q, want %q", s.LatestVisit, "March 07, 2024")
	}
}

func TestTopCountsTieBreak(t *testing.T) {
	out := topCounts(map[string]int{"B": 2, "A": 2, "C": 5}, 2)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Label != "C" || out[1].Label != "A" {
		t.Fatalf("order = %v", out)
	}
}

func TestSummarizePropagatesSourceError(t *testing.T) {
	svc := NewService(&stubSource{err: errors.New("connection reset")})
	if _, err := svc.Summarize(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
