package table

// RawTable represents one sheet exactly as uploaded: a header row followed by
// data rows of uncoerced string cells. The first header cell labels the
// parameter column; the remaining headers are date labels. Duplicate
// parameters and duplicate date labels are allowed at this stage.
type RawTable struct {
	Sheet   string     `json:"sheet"`
	Headers []string   `json:"headers"`
	Cells   [][]string `json:"cells"`
}

// NewRawTable builds a RawTable from the rows of one sheet, first row as
// column headers. Rows may be ragged; short rows read as blank cells.
func NewRawTable(sheet string, rows [][]string) *RawTable {
	t := &RawTable{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}
	t.Headers = rows[0]
	t.Cells = rows[1:]
	return t
}

// RowCount returns the number of data rows (header excluded)
func (t *RawTable) RowCount() int {
	return len(t.Cells)
}

// DateColumnCount returns the number of date-label columns
func (t *RawTable) DateColumnCount() int {
	if len(t.Headers) == 0 {
		return 0
	}
	return len(t.Headers) - 1
}

// IsEmpty reports whether the table carries no usable data
func (t *RawTable) IsEmpty() bool {
	return t == nil || len(t.Headers) < 2 || len(t.Cells) == 0
}

// Cell returns the raw cell at (row, col) in data-row coordinates, reading
// missing trailing cells as blank
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Cells) {
		return ""
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return ""
	}
	return t.Cells[row][col]
}
