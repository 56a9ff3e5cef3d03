package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrLoadFailed        = errors.New("spreadsheet could not be read")
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrEmptyTable        = errors.New("table has no data rows")

	// Normalization errors
	ErrMalformedCell = errors.New("cell is neither numeric, blank, nor censored")

	// Lookup errors
	ErrNotFound          = errors.New("resource not found")
	ErrSheetNotFound     = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrSessionNotFound   = fmt.Errorf("%w: session", ErrNotFound)
	ErrParameterNotFound = fmt.Errorf("%w: parameter", ErrNotFound)

	// View errors
	ErrNoSelection = errors.New("no parameters selected")
)

// Error constructors with context
func NewLoadError(filename string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrLoadFailed, filename, cause)
}

func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// NewMalformedCellError reports spreadsheet coordinates: row is the 1-based
// workbook row (header row is 1), column is the date label heading the cell.
func NewMalformedCellError(row int, column, value string) error {
	return fmt.Errorf("%w: row %d, column %q, value %q", ErrMalformedCell, row, column, value)
}

func NewSheetNotFoundError(sheet string) error {
	return fmt.Errorf("%w %q", ErrSheetNotFound, sheet)
}

func NewParameterNotFoundError(parameter string) error {
	return fmt.Errorf("%w %q", ErrParameterNotFound, parameter)
}

func NewSessionNotFoundError(id SessionID) error {
	return fmt.Errorf("%w %s", ErrSessionNotFound, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoadFailed) || errors.Is(err, ErrUnsupportedFormat)
}

func IsMalformedCellError(err error) bool {
	return errors.Is(err, ErrMalformedCell)
}
