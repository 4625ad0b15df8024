package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/schoolclinic/cms/internal/domain/patient"
	"github.com/schoolclinic/cms/pkg/normalize"
)

const (
	monthLabelLayout  = "January 2006"
	latestVisitLayout = "January 02, 2006"
	// NoVisits is the latest-visit sentinel when no row carries a
	// parsable visit date.
	NoVisits = "N/A"
)

// RecordSource is the slice of the patient repository the aggregator
// needs.
type RecordSource interface {
	ListAll(ctx context.Context) ([]*patient.Patient, error)
}

type Service struct {
	records RecordSource
}

func NewService(records RecordSource) *Service {
	return &Service{records: records}
}

// Summarize loads every row and aggregates it.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	rows, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Compute(rows), nil
}

// topCounts orders a frequency map most-common-first and cuts it to
// limit entries (limit <= 0 keeps everything). Equal counts are broken
// by label so the output never depends on row order.
func topCounts(freq map[string]int, limit int) []Count {
	out := make([]Count, 0, len(freq))
	for label, n := range freq {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func bucketOrUnspecified(s string) string {
	if v := normalize.ProperCase(s); v != "" {
		return v
	}
	return "Unspecified"
}

// Compute aggregates the full row set into the dashboard summary. Rows
// with unparsable visit dates are excluded from the month series and the
// latest-visit figure, never reported as errors.
func Compute(rows []*patient.Patient) *Summary {
	genders := map[string]int{}
	municipalities := map[string]int{}
	diagnoses := map[string]int{}
	months := map[string]int{}
	monthLabels := map[string]string{}
	var latest time.Time
	haveLatest := false

	for _, row := range rows {
		genders[bucketOrUnspecified(row.Gender)]++
		diagnoses[bucketOrUnspecified(row.Diagnosis)]++

		municipality := row.Address.Municipality
		if municipality == "" {
			municipality = "Unspecified"
		}
		municipalities[municipality]++

		if row.VisitDate.Valid {
			visit := row.VisitDate.Time
			key := visit.Format("2006-01")
			months[key]++
			monthLabels[key] = visit.Format(monthLabelLayout)
			if !haveLatest || visit.After(latest) {
				latest = visit
				haveLatest = true
			}
		}
	}

	keys := make([]string, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	series := make([]MonthCount, 0, len(keys))
	for _, key := range keys {
		series = append(series, MonthCount{Key: key, Label: monthLabels[key], Count: months[key]})
	}

	latestVisit := NoVisits
	if haveLatest {
		latestVisit = latest.Format(latestVisitLayout)
	}

	return &Summary{
		Total:          len(rows),
		Genders:        topCounts(genders, 0),
		Municipalities: topCounts(municipalities, 10),
		Diagnoses:      topCounts(diagnoses, 10),
		VisitsByMonth:  series,
		LatestVisit:    latestVisit,
	}
}
