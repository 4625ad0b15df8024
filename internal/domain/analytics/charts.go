package analytics

import (
	"bytes"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Chart rendering for the report: gender pie, top-5 diagnosis and
// municipality bars, and the last-12-months visit line. Each renderer
// returns nil bytes (not an error) when there is no data to draw, so the
// report can substitute its placeholder page.

const (
	chartWidth  = 640
	chartHeight = 480
)

func chartValues(counts []Count, max int) []chart.Value {
	if max > 0 && len(counts) > max {
		counts = counts[:max]
	}
	values := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		values = append(values, chart.Value{Value: float64(c.Count), Label: c.Label})
	}
	return values
}

// GenderPie renders the gender distribution pie chart.
func GenderPie(s *Summary) ([]byte, error) {
	values := chartValues(s.Genders, 0)
	if len(values) == 0 {
		return nil, nil
	}
	pie := chart.PieChart{
		Title:  "Gender Distribution",
		Width:  chartWidth,
		Height: chartHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func barChart(title string, values []chart.Value) ([]byte, error) {
	// An explicit y-range keeps the renderer from rejecting a zero-spread
	// series, which happens whenever every bar holds the same count.
	var maxCount float64
	for _, v := range values {
		if v.Value > maxCount {
			maxCount = v.Value
		}
	}
	bar := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     values,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount + 1},
		},
	}
	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DiagnosisBar renders the top-5 diagnosis frequencies.
func DiagnosisBar(s *Summary) ([]byte, error) {
	values := chartValues(s.Diagnoses, 5)
	if len(values) == 0 {
		return nil, nil
	}
	return barChart("Top Diagnoses", values)
}

// MunicipalityBar renders the top-5 municipality frequencies.
func MunicipalityBar(s *Summary) ([]byte, error) {
	values := chartValues(s.Municipalities, 5)
	if len(values) == 0 {
		return nil, nil
	}
	return barChart("Top Municipalities", values)
}

// VisitsLine renders the last 12 months of clinic visits. A single-month
// series falls back to a one-bar chart because a line needs two points.
func VisitsLine(s *Summary) ([]byte, error) {
	series := s.VisitsByMonth
	if len(series) > 12 {
		series = series[len(series)-12:]
	}
	if len(series) == 0 {
		return nil, nil
	}
	if len(series) == 1 {
		return barChart("Clinic Visits by Month", []chart.Value{
			{Value: float64(series[0].Count), Label: series[0].Label},
		})
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	ticks := make([]chart.Tick, len(series))
	var maxCount float64
	for i, m := range series {
		xs[i] = float64(i)
		ys[i] = float64(m.Count)
		ticks[i] = chart.Tick{Value: float64(i), Label: m.Label}
		if ys[i] > maxCount {
			maxCount = ys[i]
		}
	}

	line := chart.Chart{
		Title:  "Clinic Visits by Month",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: xs, YValues: ys},
		},
	}
	var buf bytes.Buffer
	if err := line.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
