// =============================================================================
// Spot/PV Normalizer - Output Writers
// =============================================================================
//
// This module persists normalized series and reads them back. The CSV file is
// the canonical output; Parquet is an optional columnar copy for analysis
// tools.
//
// CSV LAYOUT:
//
//   Time,<label 1>,...,<label n>,<value column>
//   2023-01-01 00:00:00,...,0.005
//
//   - Time uses timeseries.TimeLayout
//   - Label cells are written verbatim; rows inserted by a reindex leave
//     them empty
//   - Values use the shortest decimal form that round-trips
//
// =============================================================================

package output

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
)

// Output formats accepted in output_formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// TimeHeader is the name of the first column of every output file.
const TimeHeader = "Time"

// =============================================================================
// CSV WRITER
// =============================================================================

// WriteCSV writes s to w.
func WriteCSV(w io.Writer, s *timeseries.Series) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(s.Labels)+2)
	header = append(header, TimeHeader)
	header = append(header, s.Labels...)
	header = append(header, s.Name)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for _, p := range s.Points {
		row[0] = p.Time.Format(timeseries.TimeLayout)
		for i := range s.Labels {
			row[i+1] = ""
			if i < len(p.Extra) {
				row[i+1] = p.Extra[i]
			}
		}
		row[len(row)-1] = FormatValue(p.Value)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes s to path, replacing any existing file.
func WriteCSVFile(path string, s *timeseries.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	buffered := bufio.NewWriter(file)
	if err := WriteCSV(buffered, s); err != nil {
		file.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return file.Close()
}

// FormatValue renders a value in its shortest round-trip form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// CSV READER
// =============================================================================

// ReadCSV reads a series written by WriteCSV. The last column is the value
// column and everything between Time and it is a label.
func ReadCSV(r io.Reader, source string) (*timeseries.Series, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = 0

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &validation.DegenerateInputError{File: source, Reason: "file is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", source, err)
	}
	if len(header) < 2 || header[0] != TimeHeader {
		return nil, &validation.SchemaError{
			File:     source,
			Expected: fmt.Sprintf("header must start with %q and end with a value column", TimeHeader),
		}
	}

	valueIdx := len(header) - 1
	series := timeseries.New(header[valueIdx], append([]string(nil), header[1:valueIdx]...))

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				return nil, &validation.SchemaError{
					File:     source,
					Row:      perr.Line,
					Expected: fmt.Sprintf("expected %d fields", len(header)),
				}
			}
			return nil, fmt.Errorf("%s: failed to read CSV: %w", source, err)
		}
		line, _ := cr.FieldPos(0)

		t, err := time.ParseInLocation(timeseries.TimeLayout, strings.TrimSpace(row[0]), time.UTC)
		if err != nil {
			return nil, &validation.ParseError{
				File: source, Row: line, Field: TimeHeader, Value: row[0],
				Format: timeseries.TimeLayout, Err: err,
			}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			return nil, &validation.ParseError{
				File: source, Row: line, Field: header[valueIdx], Value: row[valueIdx],
				Format: "decimal number", Err: err,
			}
		}

		var extra []string
		if valueIdx > 1 {
			extra = append([]string(nil), row[1:valueIdx]...)
		}
		series.Append(t, v, extra)
	}

	return series, nil
}

// ReadCSVFile reads a series from path.
func ReadCSVFile(path string) (*timeseries.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, path)
}
