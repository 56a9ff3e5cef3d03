package table

import (
	"fmt"
	"math"
)

// ParameterRow is one parameter with its values aligned positionally with the
// owning table's Dates slice.
type ParameterRow struct {
	Parameter string    `json:"parameter"`
	Values    []float64 `json:"values"`
}

// CanonicalTable is the deduplicated, fully numeric table produced by the
// normalizer. Parameter labels are unique across rows, date labels unique
// across columns, both in first-occurrence order, and every cell is a finite
// float. The table is immutable once built.
type CanonicalTable struct {
	Sheet string         `json:"sheet"`
	Dates []string       `json:"dates"`
	Rows  []ParameterRow `json:"rows"`
}

// Parameters returns the parameter labels in row order
func (t *CanonicalTable) Parameters() []string {
	names := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		names[i] = row.Parameter
	}
	return names
}

// Row returns the row for a parameter by exact label
func (t *CanonicalTable) Row(parameter string) (ParameterRow, bool) {
	for _, row := range t.Rows {
		if row.Parameter == parameter {
			return row, true
		}
	}
	return ParameterRow{}, false
}

// HasParameter reports whether a parameter row exists
func (t *CanonicalTable) HasParameter(parameter string) bool {
	_, ok := t.Row(parameter)
	return ok
}

// Value returns the cell for (parameter, date label)
func (t *CanonicalTable) Value(parameter, date string) (float64, bool) {
	row, ok := t.Row(parameter)
	if !ok {
		return 0, false
	}
	for i, label := range t.Dates {
		if label == date {
			return row.Values[i], true
		}
	}
	return 0, false
}

// Validate checks the canonical invariants: unique parameters, unique date
// columns, aligned row widths, finite cells
func (t *CanonicalTable) Validate() error {
	seenDates := make(map[string]bool, len(t.Dates))
	for _, d := range t.Dates {
		if seenDates[d] {
			return fmt.Errorf("duplicate date column %q", d)
		}
		seenDates[d] = true
	}
	seenParams := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		if seenParams[row.Parameter] {
			return fmt.Errorf("duplicate parameter row %q", row.Parameter)
		}
		seenParams[row.Parameter] = true
		if len(row.Values) != len(t.Dates) {
			return fmt.Errorf("parameter %q has %d values for %d date columns",
				row.Parameter, len(row.Values), len(t.Dates))
		}
		for i, v := range row.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("parameter %q has non-finite value at column %q",
					row.Parameter, t.Dates[i])
			}
		}
	}
	return nil
}
