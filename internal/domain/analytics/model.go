package analytics

// Count is one labeled frequency bucket.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MonthCount is one month in the visit time series; Key is the sortable
// YYYY-MM form and Label the human-readable month name.
type MonthCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary holds the descriptive aggregates for the dashboard and the
// PDF report. It is fully recomputable from the row set.
type Summary struct {
	Total          int          `json:"total"`
	Genders        []Count      `json:"genders"`
	Municipalities []Count      `json:"municipalities"`
	Diagnoses      []Count      `json:"diagnoses"`
	VisitsByMonth  []MonthCount `json:"visits_by_month"`
	LatestVisit    string       `json:"latest_visit"`
}
