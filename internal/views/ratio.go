package views

import (
	"math"

	"brineviz/domain/core"
	"brineviz/domain/table"
	"brineviz/domain/views"
)

// Ratio computes numerator/denominator per sampling date. A date whose
// denominator is exactly 0.0 has an undefined ratio (a NaN marker
// internally, never zero, never an error) and is excluded from the output.
// Points keep the canonical table's column order; unlike the time-series
// view they are not re-sorted by parsed date.
func Ratio(ct *table.CanonicalTable, numerator, denominator string) (*views.RatioView, error) {
	numRow, ok := ct.Row(numerator)
	if !ok {
		return nil, core.NewParameterNotFoundError(numerator)
	}
	denRow, ok := ct.Row(denominator)
	if !ok {
		return nil, core.NewParameterNotFoundError(denominator)
	}

	points := make([]views.RatioPoint, 0, len(ct.Dates))
	for i, date := range ct.Dates {
		ratio := math.NaN()
		if denRow.Values[i] != 0 {
			ratio = numRow.Values[i] / denRow.Values[i]
		}
		if math.IsNaN(ratio) {
			continue
		}
		points = append(points, views.RatioPoint{Date: date, Ratio: ratio})
	}

	return &views.RatioView{
		Numerator:   numerator,
		Denominator: denominator,
		Points:      points,
	}, nil
}
