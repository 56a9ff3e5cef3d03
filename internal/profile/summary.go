// Package profile computes per-parameter summary statistics over a canonical
// table for the cleaned-data preview.
package profile

import (
	"brineviz/domain/table"

	"github.com/montanaflynn/stats"
)

// ParameterSummary holds the descriptive statistics for one parameter row
type ParameterSummary struct {
	Parameter string  `json:"parameter"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Median    float64 `json:"median"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
}

// Summarize computes summary statistics for every parameter row, in row
// order. Post-normalization cells are all finite, so the individual stat
// errors can only fire on an empty table and are ignored the same way the
// rest of the codebase treats them.
func Summarize(ct *table.CanonicalTable) []ParameterSummary {
	summaries := make([]ParameterSummary, 0, len(ct.Rows))
	for _, row := range ct.Rows {
		data := stats.Float64Data(row.Values)

		mean, _ := stats.Mean(data)
		stdDev, _ := stats.StandardDeviation(data)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		median, _ := stats.Median(data)
		q25, _ := stats.Percentile(data, 25)
		q75, _ := stats.Percentile(data, 75)

		summaries = append(summaries, ParameterSummary{
			Parameter: row.Parameter,
			Count:     len(row.Values),
			Mean:      mean,
			StdDev:    stdDev,
			Min:       min,
			Max:       max,
			Median:    median,
			Q25:       q25,
			Q75:       q75,
		})
	}
	return summaries
}
