package spreadsheet

// Config holds configuration for the spreadsheet loader
type Config struct {
	// DefaultSheetName keys the single table a CSV upload produces
	DefaultSheetName string `json:"default_sheet_name"`
}

// DefaultConfig returns sensible defaults for spreadsheet loading
func DefaultConfig() Config {
	return Config{
		DefaultSheetName: "Sheet1",
	}
}
