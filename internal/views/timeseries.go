package views

import (
	"sort"
	"time"

	"brineviz/domain/core"
	"brineviz/domain/table"
	"brineviz/domain/views"
)

// TimeSeries reshapes the canonical table into long form restricted to the
// selected parameters, one series per parameter in the table's row order.
// Date labels are parsed into calendar dates; a label that fails to parse
// drops its records from every series and is reported in DroppedLabels.
// Points within a series are sorted ascending by parsed date.
func TimeSeries(ct *table.CanonicalTable, selected []string) (*views.TimeSeriesView, error) {
	if len(selected) == 0 {
		return nil, core.ErrNoSelection
	}
	wanted := make(map[string]bool, len(selected))
	for _, name := range selected {
		if !ct.HasParameter(name) {
			return nil, core.NewParameterNotFoundError(name)
		}
		wanted[name] = true
	}

	// Parse each date column once; per-record parse failures are recovered
	// locally and never abort the view.
	parsed := make([]time.Time, len(ct.Dates))
	usable := make([]bool, len(ct.Dates))
	var dropped []string
	for i, label := range ct.Dates {
		t, err := core.ParseSampleDate(label)
		if err != nil {
			dropped = append(dropped, label)
			continue
		}
		parsed[i] = t
		usable[i] = true
	}

	series := make([]views.Series, 0, len(selected))
	for _, row := range ct.Rows {
		if !wanted[row.Parameter] {
			continue
		}
		points := make([]views.SeriesPoint, 0, len(ct.Dates))
		for i, label := range ct.Dates {
			if !usable[i] {
				continue
			}
			points = append(points, views.SeriesPoint{
				Label: label,
				Date:  parsed[i],
				Value: row.Values[i],
			})
		}
		sort.SliceStable(points, func(a, b int) bool {
			return points[a].Date.Before(points[b].Date)
		})
		series = append(series, views.Series{Parameter: row.Parameter, Points: points})
	}

	return &views.TimeSeriesView{
		Series:        series,
		DroppedLabels: dropped,
	}, nil
}
