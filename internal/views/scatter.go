// Package views projects a canonical table into the three chart shapes the
// renderer consumes. Every builder is a pure read of the table; none mutate
// it or touch I/O.
package views

import (
	"math"

	"brineviz/domain/core"
	"brineviz/domain/table"
	"brineviz/domain/views"
)

// Scatter pairs two parameters' values per sampling date. Point order follows
// the table's column order; for plotting purposes the cloud is unordered.
// Selecting the same parameter for both axes puts every point on y=x.
func Scatter(ct *table.CanonicalTable, paramX, paramY string) (*views.ScatterView, error) {
	xRow, ok := ct.Row(paramX)
	if !ok {
		return nil, core.NewParameterNotFoundError(paramX)
	}
	yRow, ok := ct.Row(paramY)
	if !ok {
		return nil, core.NewParameterNotFoundError(paramY)
	}

	points := make([]views.ScatterPoint, 0, len(ct.Dates))
	for i, date := range ct.Dates {
		x, y := xRow.Values[i], yRow.Values[i]
		// Defensive only: post-normalization cells are always finite.
		if !isFinite(x) || !isFinite(y) {
			continue
		}
		points = append(points, views.ScatterPoint{Date: date, X: x, Y: y})
	}

	return &views.ScatterView{
		ParamX: paramX,
		ParamY: paramY,
		Points: points,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
