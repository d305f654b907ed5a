// =============================================================================
// Spot/PV Normalizer - XLSX Parser Module
// =============================================================================
//
// Price exports are offered both as delimited text and as spreadsheets. This
// module reads the spreadsheet flavour into the same CSVData structure the
// CSV parser produces, so the price pipeline does not care which one it got.
//
// CELL VALUES:
//   Cells are read as displayed (formatted) text. A date cell therefore has
//   to be formatted the way price.date_layout expects, and number cells
//   keep whatever decimal separator the workbook displays.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/csvparser"
)

// Options selects the table inside the workbook.
type Options struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string

	// HeaderRow is the 1-indexed row holding the column names.
	// Default: 1
	HeaderRow int
}

// IsWorkbook reports whether path names a spreadsheet this package can read.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// Parse reads a table from an XLSX workbook.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - opts: Sheet and header row selection.
//
// RETURNS:
//   - The header and data rows. Rows shorter than the header are padded
//     with empty cells, since the workbook omits trailing blanks.
//   - An error if the workbook or sheet cannot be read.
func Parse(path string, opts Options) (*csvparser.CSVData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, path, opts)
}

// parseSheet reads the selected sheet from an open workbook.
func parseSheet(f *excelize.File, source string, opts Options) (*csvparser.CSVData, error) {
	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("%s: workbook has no sheets", source)
	}

	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", source, sheetName, err)
	}
	if len(rows) < headerRow {
		return nil, fmt.Errorf("%s: sheet %q has no header row %d", source, sheetName, headerRow)
	}

	headers := make([]string, len(rows[headerRow-1]))
	for i, h := range rows[headerRow-1] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	data := &csvparser.CSVData{
		Headers:    headers,
		SourceFile: source,
	}

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			row = padded
		}
		data.Records = append(data.Records, csvparser.Record{Line: i + 1, Fields: row})
	}

	return data, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
