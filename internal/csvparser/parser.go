// =============================================================================
// Spot/PV Normalizer - CSV Parser Module
// =============================================================================
//
// This module reads the two raw inputs into memory. It knows nothing about
// prices or PV; it only handles the file formats:
//   - Delimited files with a single header row and an optional UTF-8
//     byte-order mark (the price export)
//   - Header-less files where data lines are recognized by a fixed prefix
//     and everything else is metadata (the PV export)
//
// Every record keeps the 1-indexed line it came from so that errors raised
// later in the pipeline can point at the offending row.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// bom is the UTF-8 byte-order marker some spreadsheet exports prepend.
const bom = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// Record is one parsed data line.
type Record struct {
	// Line is the 1-indexed line number in the source file.
	Line int

	// Fields are the raw field values.
	Fields []string
}

// CSVData represents a parsed delimited file with a header row.
type CSVData struct {
	// Headers contains the column headers, BOM stripped and trimmed.
	Headers []string

	// Records contains the data rows in file order.
	Records []Record

	// SourceFile is the path to the source file.
	SourceFile string
}

// Settings describes a delimited file.
type Settings struct {
	// Delimiter separates fields. Accepts a single character or one of the
	// names "tab", "pipe", "semicolon", "comma".
	Delimiter string
}

// =============================================================================
// HEADER FILE PARSER
// =============================================================================

// Parse reads a delimited file with one header row.
//
// PARAMETERS:
//   - filePath: The path to the file.
//   - settings: The delimiter settings.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the header and records.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings Settings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, filePath, settings)
}

// ParseReader is Parse for an already opened source. source names the input
// in the result and in error messages.
func ParseReader(r io.Reader, source string, settings Settings) (*CSVData, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: file is empty", source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", source, err)
	}

	data := &CSVData{
		Headers:    cleanHeaders(header),
		SourceFile: source,
	}

	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read CSV: %w", source, err)
		}
		if isRowEmpty(row) {
			continue
		}
		line, _ := csvReader.FieldPos(0)
		data.Records = append(data.Records, Record{Line: line, Fields: row})
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Field counts are checked by the pipelines, which know the expected
	// shape and can report a schema error with the row number.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// Delimiter maps a configured delimiter to the rune used by encoding/csv.
func Delimiter(name string) rune {
	switch name {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	case "", ",", "comma":
		return ','
	default:
		return []rune(name)[0]
	}
}

// cleanHeaders strips the byte-order marker from the first cell and trims
// whitespace around every header.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, bom)
		}
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
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

// =============================================================================
// PREFIXED LINE PARSER
// =============================================================================

// ParsePrefixed reads a header-less file and returns only the lines that
// start with prefix once surrounding whitespace is trimmed. Each kept line is
// split on delimiter.
//
// The prefix test is a heuristic: it both skips textual header and footer
// blocks and assumes that every data line starts with the same characters
// (for PV exports, a year beginning with "20").
func ParsePrefixed(filePath, prefix string, delimiter rune) ([]Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParsePrefixedReader(file, filePath, prefix, delimiter)
}

// ParsePrefixedReader is ParsePrefixed for an already opened source.
func ParsePrefixedReader(r io.Reader, source, prefix string, delimiter rune) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	var records []Record
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}
		if !strings.HasPrefix(line, prefix) {
			continue
		}

		lineReader := csv.NewReader(strings.NewReader(line))
		lineReader.Comma = delimiter
		lineReader.FieldsPerRecord = -1
		lineReader.LazyQuotes = true
		fields, err := lineReader.Read()
		if err != nil {
			return nil, fmt.Errorf("%s:%d: failed to split line: %w", source, lineNo, err)
		}
		records = append(records, Record{Line: lineNo, Fields: fields})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to read file: %w", source, err)
	}

	return records, nil
}
