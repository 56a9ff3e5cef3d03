// Package spreadsheet reads uploaded workbooks and CSV files into raw
// tables, one per sheet. It is the only component that touches file formats;
// everything downstream works on domain tables.
package spreadsheet

import (
	"encoding/csv"
	"io"
	"log"
	"path/filepath"
	"strings"

	"brineviz/domain/core"
	"brineviz/domain/table"

	"github.com/xuri/excelize/v2"
)

// Loader reads CSV and Excel uploads into raw tables
type Loader struct {
	cfg Config
}

// NewLoader creates a loader with the given configuration
func NewLoader(cfg Config) *Loader {
	if cfg.DefaultSheetName == "" {
		cfg.DefaultSheetName = DefaultConfig().DefaultSheetName
	}
	return &Loader{cfg: cfg}
}

// Load parses an upload into raw tables keyed by sheet name. CSV files yield
// exactly one table under the default sheet name; workbook formats yield one
// table per sheet. The returned slice preserves workbook sheet order, since
// map iteration does not. A failure yields no partial result.
func (l *Loader) Load(r io.Reader, filename string) (map[string]*table.RawTable, []string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return l.loadCSV(r, filename)
	case ".xlsx", ".xlsm", ".xls":
		return l.loadWorkbook(r, filename)
	default:
		return nil, nil, core.NewUnsupportedFormatError(ext)
	}
}

// loadCSV reads a comma-separated upload as a single sheet
func (l *Loader) loadCSV(r io.Reader, filename string) (map[string]*table.RawTable, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may be ragged; short rows read as blanks

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, core.NewLoadError(filename, err)
	}
	if len(rows) < 2 {
		return nil, nil, core.NewLoadError(filename, core.ErrEmptyTable)
	}

	name := l.cfg.DefaultSheetName
	raw := table.NewRawTable(name, rows)
	log.Printf("[Loader] CSV file %s loaded (%d columns, %d rows)",
		filename, len(raw.Headers), raw.RowCount())

	return map[string]*table.RawTable{name: raw}, []string{name}, nil
}

// loadWorkbook reads every sheet of an Excel upload
func (l *Loader) loadWorkbook(r io.Reader, filename string) (map[string]*table.RawTable, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, core.NewLoadError(filename, err)
	}
	defer f.Close()

	sheets := make(map[string]*table.RawTable)
	names := f.GetSheetList()
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, core.NewLoadError(filename, err)
		}
		sheets[name] = table.NewRawTable(name, rows)
	}
	if len(sheets) == 0 {
		return nil, nil, core.NewLoadError(filename, core.ErrEmptyTable)
	}

	log.Printf("[Loader] workbook %s loaded (%d sheets)", filename, len(sheets))
	return sheets, names, nil
}
