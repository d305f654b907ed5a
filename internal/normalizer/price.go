// =============================================================================
// Spot/PV Normalizer - Price Pipeline
// =============================================================================
//
// The price export has one column per bidding zone and several of them have
// near-identical names. The pipeline:
//   1. Resolves the date column, the two primary price columns and the
//      informational columns to keep, once per header
//   2. Converts each row to a price per kWh, falling back from the primary
//      column to the secondary one when the primary value is zero
//   3. Deduplicates by timestamp, reindexes onto the interval grid and fills
//      gaps (linear inside, nearest known value at the edges)
//
// Any schema or parse problem aborts the pipeline. There is no row skipping.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/csvparser"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/xlsxparser"
)

// PriceColumn is the value column name of a normalized price series.
const PriceColumn = "price_kWh"

// =============================================================================
// COLUMN SELECTION
// =============================================================================

// ColumnSelection is the resolved layout of a price header.
type ColumnSelection struct {
	DateIndex     int
	PrimaryIndex  int
	FallbackIndex int

	// Retained are the indexes of the informational columns copied into the
	// output, in header order. RetainedNames holds their names.
	Retained      []int
	RetainedNames []string
}

// ResolveColumns locates the required columns and selects the retained
// ones. A retained column is any other column whose name contains at least
// one allowed substring and is not the excluded column.
//
// The result depends only on the header and the settings, so resolving the
// same header twice yields the same selection.
func ResolveColumns(source string, header []string, settings config.PriceSettings) (*ColumnSelection, error) {
	sel := &ColumnSelection{DateIndex: -1, PrimaryIndex: -1, FallbackIndex: -1}

	for i, name := range header {
		switch {
		case name == settings.DateColumn && sel.DateIndex < 0:
			sel.DateIndex = i
		case name == settings.PrimaryColumn && sel.PrimaryIndex < 0:
			sel.PrimaryIndex = i
		case name == settings.FallbackColumn && sel.FallbackIndex < 0:
			sel.FallbackIndex = i
		}
	}

	required := []struct {
		name  string
		index int
	}{
		{settings.DateColumn, sel.DateIndex},
		{settings.PrimaryColumn, sel.PrimaryIndex},
		{settings.FallbackColumn, sel.FallbackIndex},
	}
	for _, r := range required {
		if r.index < 0 {
			return nil, &validation.SchemaError{
				File:     source,
				Column:   r.name,
				Expected: "required column is missing from the header",
			}
		}
	}

	for i, name := range header {
		if i == sel.DateIndex || i == sel.PrimaryIndex || i == sel.FallbackIndex {
			continue
		}
		if name == settings.ExcludedColumn || !containsAny(name, settings.AllowedSubstrings) {
			continue
		}
		sel.Retained = append(sel.Retained, i)
		sel.RetainedNames = append(sel.RetainedNames, name)
	}

	return sel, nil
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// =============================================================================
// PRICE NORMALIZER
// =============================================================================

// PriceNormalizer turns a raw price export into a fixed-interval series.
type PriceNormalizer struct {
	settings config.PriceSettings
}

// NewPriceNormalizer creates a PriceNormalizer.
func NewPriceNormalizer(settings config.PriceSettings) *PriceNormalizer {
	return &PriceNormalizer{settings: settings}
}

// Read loads the raw export. Workbooks go through the spreadsheet reader,
// anything else through the delimited parser.
func (n *PriceNormalizer) Read(path string) (*csvparser.CSVData, error) {
	if xlsxparser.IsWorkbook(path) {
		return xlsxparser.Parse(path, xlsxparser.Options{
			Sheet:     n.settings.Sheet,
			HeaderRow: n.settings.HeaderRow,
		})
	}
	return csvparser.Parse(path, csvparser.Settings{Delimiter: n.settings.Delimiter})
}

// Normalize builds the price series from parsed raw data.
//
// PARAMETERS:
//   - data: The raw header and rows.
//   - interval: The grid step.
//
// RETURNS:
//   - The normalized series, named PriceColumn, labelled with the retained
//     column names.
//   - Statistics about the run (processing time is left to the caller).
//   - A SchemaError, ParseError or DegenerateInputError on bad input.
func (n *PriceNormalizer) Normalize(data *csvparser.CSVData, interval time.Duration) (*timeseries.Series, ProcessingStats, error) {
	var stats ProcessingStats

	sel, err := ResolveColumns(data.SourceFile, data.Headers, n.settings)
	if err != nil {
		return nil, stats, err
	}
	if len(data.Records) == 0 {
		return nil, stats, &validation.DegenerateInputError{
			File:   data.SourceFile,
			Reason: "no data rows",
		}
	}

	series := timeseries.New(PriceColumn, sel.RetainedNames)
	for _, rec := range data.Records {
		t, price, extra, err := n.parseRow(data.SourceFile, data.Headers, sel, rec)
		if err != nil {
			return nil, stats, err
		}
		series.Append(t, price, extra)
	}
	stats.RawRows = series.Len()

	stats.DuplicatesDropped = series.Dedupe()
	series.Sort()

	start, end, _ := series.Bounds()
	grid, err := timeseries.Grid(start, end, interval)
	if err != nil {
		return nil, stats, err
	}
	series.Reindex(grid)
	stats.GapsFilled = series.Interpolate(timeseries.EdgeCarry)

	stats.GridPoints = series.Len()
	stats.Total = series.Sum()
	return series, stats, nil
}

// parseRow converts one raw row. Each failure names the row and the field.
func (n *PriceNormalizer) parseRow(source string, header []string, sel *ColumnSelection, rec csvparser.Record) (time.Time, float64, []string, error) {
	if len(rec.Fields) != len(header) {
		return time.Time{}, 0, nil, &validation.SchemaError{
			File:     source,
			Row:      rec.Line,
			Expected: fmt.Sprintf("expected %d fields, got %d", len(header), len(rec.Fields)),
		}
	}

	dateRaw := rec.Fields[sel.DateIndex]
	t, err := ParseTimestamp(dateRaw, n.settings.DateLayout)
	if err != nil {
		return time.Time{}, 0, nil, &validation.ParseError{
			File:   source,
			Row:    rec.Line,
			Field:  header[sel.DateIndex],
			Value:  dateRaw,
			Format: n.settings.DateLayout,
			Err:    err,
		}
	}

	primary, err := n.parsePrice(source, header, rec, sel.PrimaryIndex)
	if err != nil {
		return time.Time{}, 0, nil, err
	}
	fallback, err := n.parsePrice(source, header, rec, sel.FallbackIndex)
	if err != nil {
		return time.Time{}, 0, nil, err
	}

	// A primary value of exactly zero falls through, even to a zero fallback.
	effective := primary
	if primary.IsZero() {
		effective = fallback
	}

	extra := make([]string, len(sel.Retained))
	for i, idx := range sel.Retained {
		extra[i] = rec.Fields[idx]
	}

	return t, PerThousand(effective), extra, nil
}

func (n *PriceNormalizer) parsePrice(source string, header []string, rec csvparser.Record, idx int) (decimal.Decimal, error) {
	raw := rec.Fields[idx]
	d, err := ParseLocaleNumber(raw)
	if err != nil {
		return d, &validation.ParseError{
			File:   source,
			Row:    rec.Line,
			Field:  header[idx],
			Value:  raw,
			Format: "decimal number or \"-\"",
			Err:    err,
		}
	}
	return d, nil
}
