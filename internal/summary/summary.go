// Package summary computes descriptive statistics for the signal series of a
// sheet.
package summary

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"signalmap/internal/chart"
)

// Stats describes one series.
type Stats struct {
	Series string  `json:"series"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Compute summarises every series of lc that has at least one value.
func Compute(lc chart.LineChart) []Stats {
	var out []Stats
	for _, s := range lc.Series {
		vals := make([]float64, 0, len(s.Values))
		for _, v := range s.Values {
			if v != nil {
				vals = append(vals, *v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		out = append(out, Stats{
			Series: s.Name,
			Count:  len(vals),
			Min:    floats.Min(vals),
			Max:    floats.Max(vals),
			Mean:   stat.Mean(vals, nil),
			Median: median(vals),
			StdDev: stdDev(vals),
		})
	}
	return out
}

func median(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// stdDev is the sample standard deviation; a single value has none.
func stdDev(vals []float64) float64 {
	if len(vals) <= 1 {
		return 0
	}
	return stat.StdDev(vals, nil)
}
