package views

import "time"

// ScatterPoint pairs the values of two parameters on one sampling date
type ScatterPoint struct {
	Date string  `json:"date"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// ScatterView is the point cloud for one parameter-vs-parameter plot
type ScatterView struct {
	ParamX string         `json:"param_x"`
	ParamY string         `json:"param_y"`
	Points []ScatterPoint `json:"points"`
}

// SeriesPoint is one (date, value) record of a time series. Label keeps the
// original column label; Date is the parsed calendar date the series is
// ordered by.
type SeriesPoint struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is one parameter's line, points sorted ascending by parsed date
type Series struct {
	Parameter string        `json:"parameter"`
	Points    []SeriesPoint `json:"points"`
}

// TimeSeriesView groups the selected parameters for multi-line rendering.
// DroppedLabels lists date columns whose labels failed to parse; their
// records are omitted, never fatal.
type TimeSeriesView struct {
	Series        []Series `json:"series"`
	DroppedLabels []string `json:"dropped_labels,omitempty"`
}

// RatioPoint is one defined numerator/denominator quotient. Dates whose
// denominator is exactly zero are excluded from the view entirely.
type RatioPoint struct {
	Date  string  `json:"date"`
	Ratio float64 `json:"ratio"`
}

// RatioView keeps its points in the canonical table's column order, not
// parsed-date order.
type RatioView struct {
	Numerator   string       `json:"numerator"`
	Denominator string       `json:"denominator"`
	Points      []RatioPoint `json:"points"`
}
