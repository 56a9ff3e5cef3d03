// Package normalize turns a raw uploaded sheet into the canonical table the
// chart views consume: censored and blank readings are resolved, every cell
// becomes a finite float, and duplicate date columns / parameter rows are
// collapsed by arithmetic mean at their first-occurrence position.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"brineviz/domain/core"
	"brineviz/domain/table"

	"gonum.org/v1/gonum/stat"
)

// Strategy selects how censored ("<x") and blank readings enter group means
type Strategy string

const (
	// StrategyFillZero replaces censored and blank readings with 0.0 before
	// averaging, so they pull group means toward zero. This reproduces the
	// historical cleaning behavior and is the default.
	StrategyFillZero Strategy = "fill_zero"
	// StrategyExcludeMissing leaves censored and blank readings out of group
	// means entirely. A cell whose every contributor is missing finalizes to
	// 0.0 so the output stays fully numeric.
	StrategyExcludeMissing Strategy = "exclude_missing"
)

// MalformedPolicy decides what happens to a non-blank cell that is neither
// censored nor parseable as a number
type MalformedPolicy string

const (
	// MalformedError aborts the whole normalization with a cell-level error.
	// Default: bad data should surface, not vanish into a zero.
	MalformedError MalformedPolicy = "error"
	// MalformedZero treats the cell like a blank reading
	MalformedZero MalformedPolicy = "zero"
)

// Options configures one normalization pass
type Options struct {
	Strategy  Strategy        `json:"strategy"`
	Malformed MalformedPolicy `json:"malformed"`
}

// DefaultOptions returns the compatibility defaults
func DefaultOptions() Options {
	return Options{
		Strategy:  StrategyFillZero,
		Malformed: MalformedError,
	}
}

// Validate checks that both policies carry known values
func (o Options) Validate() error {
	switch o.Strategy {
	case StrategyFillZero, StrategyExcludeMissing:
	default:
		return fmt.Errorf("unknown aggregation strategy %q", o.Strategy)
	}
	switch o.Malformed {
	case MalformedError, MalformedZero:
	default:
		return fmt.Errorf("unknown malformed-cell policy %q", o.Malformed)
	}
	return nil
}

// Normalizer transforms raw tables into canonical tables. It is pure and
// deterministic: no I/O, no randomness, and the input table is never mutated.
type Normalizer struct {
	opts Options
}

// New creates a normalizer with the given options
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize runs the full cleaning pass over one raw sheet. It either
// returns a complete canonical table or an error, never a partial result.
func (n *Normalizer) Normalize(raw *table.RawTable) (*table.CanonicalTable, error) {
	if err := n.opts.Validate(); err != nil {
		return nil, err
	}
	if raw.IsEmpty() {
		return nil, fmt.Errorf("%w: sheet %q", core.ErrEmptyTable, sheetName(raw))
	}

	dates := raw.Headers[1:]

	// Step 1+2: scalarize every value cell and split off the parameter labels.
	// Missing readings are carried as NaN markers so the exclude-from-mean
	// strategy can tell them apart; fill-zero resolves them to 0.0 right here.
	params := make([]string, raw.RowCount())
	matrix := make([][]float64, raw.RowCount())
	for i := range matrix {
		params[i] = raw.Cell(i, 0)
		rowVals := make([]float64, len(dates))
		for j := range dates {
			v, err := n.scalarize(raw.Cell(i, j+1), i+2, dates[j])
			if err != nil {
				return nil, err
			}
			rowVals[j] = v
		}
		matrix[i] = rowVals
	}

	// Step 3: collapse duplicate date columns by exact label match. The merged
	// column sits where the label first occurred.
	dateGroups := groupLabels(dates)
	collapsed := make([][]float64, len(matrix))
	for i, rowVals := range matrix {
		merged := make([]float64, len(dateGroups))
		for g, grp := range dateGroups {
			merged[g] = groupMean(rowVals, grp.indexes)
		}
		collapsed[i] = merged
	}

	// Step 4: collapse duplicate parameter rows the same way, writing the
	// per-date means into the group's first row.
	paramGroups := groupLabels(params)
	rows := make([]table.ParameterRow, len(paramGroups))
	column := make([]float64, 0, len(matrix))
	for p, grp := range paramGroups {
		values := make([]float64, len(dateGroups))
		for j := range dateGroups {
			column = column[:0]
			for _, i := range grp.indexes {
				column = append(column, collapsed[i][j])
			}
			values[j] = groupMean(column, nil)
		}
		rows[p] = table.ParameterRow{Parameter: grp.label, Values: values}
	}

	// Step 5: finalize. Any surviving missing marker becomes 0.0 so every
	// cell is a finite float.
	dateLabels := make([]string, len(dateGroups))
	for g, grp := range dateGroups {
		dateLabels[g] = grp.label
	}
	for _, row := range rows {
		for j, v := range row.Values {
			if math.IsNaN(v) {
				row.Values[j] = 0
			}
		}
	}

	return &table.CanonicalTable{
		Sheet: raw.Sheet,
		Dates: dateLabels,
		Rows:  rows,
	}, nil
}

// scalarize coerces one value cell to a float. row is the 1-based workbook
// row for error reporting; column is the date label heading the cell.
func (n *Normalizer) scalarize(cell string, row int, column string) (float64, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || strings.HasPrefix(trimmed, "<") {
		return n.missing(), nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		if n.opts.Malformed == MalformedZero {
			return n.missing(), nil
		}
		return 0, core.NewMalformedCellError(row, column, cell)
	}
	return v, nil
}

// missing returns the in-flight representation of a censored/blank reading
func (n *Normalizer) missing() float64 {
	if n.opts.Strategy == StrategyExcludeMissing {
		return math.NaN()
	}
	return 0
}

// labelGroup is one distinct label with the positions it occupies, in
// first-occurrence order
type labelGroup struct {
	label   string
	indexes []int
}

// groupLabels groups positions by exact string equality, preserving the
// first occurrence's position. No trimming, no date parsing: two labels that
// spell the same date differently stay separate columns.
func groupLabels(labels []string) []labelGroup {
	groups := make([]labelGroup, 0, len(labels))
	seen := make(map[string]int, len(labels))
	for i, label := range labels {
		if g, ok := seen[label]; ok {
			groups[g].indexes = append(groups[g].indexes, i)
			continue
		}
		seen[label] = len(groups)
		groups = append(groups, labelGroup{label: label, indexes: []int{i}})
	}
	return groups
}

// groupMean averages the selected values, skipping missing markers. With a
// nil index set the whole slice contributes. A size-1 group passes its value
// through untouched; a group whose every value is missing stays missing.
func groupMean(vals []float64, indexes []int) float64 {
	if indexes == nil {
		indexes = make([]int, len(vals))
		for i := range vals {
			indexes[i] = i
		}
	}
	if len(indexes) == 1 {
		return vals[indexes[0]]
	}
	contributing := make([]float64, 0, len(indexes))
	for _, i := range indexes {
		if math.IsNaN(vals[i]) {
			continue
		}
		contributing = append(contributing, vals[i])
	}
	if len(contributing) == 0 {
		return math.NaN()
	}
	return stat.Mean(contributing, nil)
}

func sheetName(raw *table.RawTable) string {
	if raw == nil {
		return ""
	}
	return raw.Sheet
}
