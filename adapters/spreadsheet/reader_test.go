package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"brineviz/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	csvData := "Parameter,01/01/2022,01/02/2022\npH,7.0,7.2\nTurbidity,0.5,<0.2\n"

	loader := NewLoader(DefaultConfig())
	sheets, names, err := loader.Load(strings.NewReader(csvData), "samples.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"Sheet1"}, names)
	raw, ok := sheets["Sheet1"]
	require.True(t, ok)
	assert.Equal(t, []string{"Parameter", "01/01/2022", "01/02/2022"}, raw.Headers)
	assert.Equal(t, 2, raw.RowCount())
	// Cells come through uncoerced; censored markers survive as text.
	assert.Equal(t, "<0.2", raw.Cell(1, 2))
}

func TestLoadCSVRaggedRows(t *testing.T) {
	csvData := "Parameter,01/01/2022,01/02/2022\npH,7.0\n"

	loader := NewLoader(DefaultConfig())
	sheets, _, err := loader.Load(strings.NewReader(csvData), "ragged.csv")
	require.NoError(t, err)
	assert.Equal(t, "", sheets["Sheet1"].Cell(0, 2))
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	loader := NewLoader(DefaultConfig())
	_, _, err := loader.Load(strings.NewReader("Parameter,01/01/2022\n"), "empty.csv")
	assert.ErrorIs(t, err, core.ErrLoadFailed)
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Chemistry"))
	_, err := f.NewSheet("Metals")
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Chemistry", "A1",
		&[]interface{}{"Parameter", "01/01/2022", "01/02/2022"}))
	require.NoError(t, f.SetSheetRow("Chemistry", "A2",
		&[]interface{}{"pH", "7.0", "7.2"}))
	require.NoError(t, f.SetSheetRow("Metals", "A1",
		&[]interface{}{"Parameter", "01/01/2022"}))
	require.NoError(t, f.SetSheetRow("Metals", "A2",
		&[]interface{}{"Zinc", "<0.1"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	loader := NewLoader(DefaultConfig())
	sheets, names, err := loader.Load(bytes.NewReader(buf.Bytes()), "samples.xlsx")
	require.NoError(t, err)

	// Workbook sheet order is preserved in the names slice.
	assert.Equal(t, []string{"Chemistry", "Metals"}, names)
	require.Len(t, sheets, 2)
	assert.Equal(t, []string{"Parameter", "01/01/2022", "01/02/2022"}, sheets["Chemistry"].Headers)
	assert.Equal(t, "Zinc", sheets["Metals"].Cell(0, 0))
	assert.Equal(t, "<0.1", sheets["Metals"].Cell(0, 1))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	loader := NewLoader(DefaultConfig())
	for _, name := range []string{"report.pdf", "data.json", "noextension"} {
		_, _, err := loader.Load(strings.NewReader("irrelevant"), name)
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat, "file %s", name)
	}
}

func TestLoadCorruptWorkbook(t *testing.T) {
	loader := NewLoader(DefaultConfig())
	_, _, err := loader.Load(strings.NewReader("this is not a zip archive"), "broken.xlsx")
	assert.ErrorIs(t, err, core.ErrLoadFailed)
}

func TestLoaderCustomSheetName(t *testing.T) {
	loader := NewLoader(Config{DefaultSheetName: "Upload"})
	sheets, names, err := loader.Load(strings.NewReader("Parameter,01/01/2022\npH,7.0\n"), "samples.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Upload"}, names)
	_, ok := sheets["Upload"]
	assert.True(t, ok)
}
