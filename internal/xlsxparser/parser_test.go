package xlsxparser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellStr("Sheet1", cell, value))
		}
	}

	path := filepath.Join(t.TempDir(), "prices.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParse_ReadsFirstSheet(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Datum von", "A", "B"},
		{"01.01.2023 00:00", "-", "5,0"},
		{"01.01.2023 00:15", "3,0"},
	})

	data, err := Parse(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Datum von", "A", "B"}, data.Headers)
	require.Len(t, data.Records, 2)
	assert.Equal(t, 2, data.Records[0].Line)
	assert.Equal(t, []string{"01.01.2023 00:15", "3,0", ""}, data.Records[1].Fields)
}

func TestParse_HeaderRowOffset(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Großhandelspreise"},
		{"Datum von", "A"},
		{"01.01.2023 00:00", "1,0"},
	})

	data, err := Parse(path, Options{HeaderRow: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Datum von", "A"}, data.Headers)
	assert.Equal(t, 3, data.Records[0].Line)
}

func TestParse_UnknownSheet(t *testing.T) {
	path := writeWorkbook(t, [][]string{{"a"}})
	_, err := Parse(path, Options{Sheet: "missing"})
	assert.Error(t, err)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("prices.XLSX"))
	assert.False(t, IsWorkbook("prices.csv"))
}
