// =============================================================================
// Spot/PV Normalizer - PV Pipeline
// =============================================================================
//
// The PV export is a header-less hourly (or sub-hourly) power series wrapped
// in free-text metadata. The pipeline:
//   1. Keeps lines starting with the data prefix and reads time and power
//   2. Converts W to kWh per interval and records the original total
//   3. Reindexes onto whole days, shifts by the timezone correction and
//      reindexes again, capped at the cutoff
//   4. Rescales so the output total equals the original total
//
// Gaps without a known neighbour are filled with zero: there is no
// production before the first or after the last reading.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/csvparser"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
)

// EnergyColumn is the value column name of a normalized PV series.
const EnergyColumn = "kWh"

const (
	pvTimeField  = 0
	pvPowerField = 1
)

// PVNormalizer turns a raw PV export into a fixed-interval energy series.
type PVNormalizer struct {
	settings config.PVSettings
}

// NewPVNormalizer creates a PVNormalizer.
func NewPVNormalizer(settings config.PVSettings) *PVNormalizer {
	return &PVNormalizer{settings: settings}
}

// Read returns the data lines of the raw export.
func (n *PVNormalizer) Read(path string) ([]csvparser.Record, error) {
	return csvparser.ParsePrefixed(path, n.settings.DataPrefix, ',')
}

// Normalize builds the energy series.
//
// PARAMETERS:
//   - source: The input name used in errors.
//   - records: The data lines.
//   - interval: The grid step.
//   - cutoff: The last instant allowed in the output.
//
// RETURNS:
//   - The normalized series, named EnergyColumn.
//   - Statistics about the run, including the original total and the
//     applied scale factor.
//   - A SchemaError, ParseError or DegenerateInputError on bad input.
func (n *PVNormalizer) Normalize(source string, records []csvparser.Record, interval time.Duration, cutoff time.Time) (*timeseries.Series, ProcessingStats, error) {
	var stats ProcessingStats

	shift, err := n.settings.Shift()
	if err != nil {
		return nil, stats, err
	}
	if len(records) == 0 {
		return nil, stats, &validation.DegenerateInputError{
			File:   source,
			Reason: fmt.Sprintf("no lines start with %q", n.settings.DataPrefix),
		}
	}

	series := timeseries.New(EnergyColumn, nil)
	for _, rec := range records {
		t, kwh, err := n.parseRecord(source, rec)
		if err != nil {
			return nil, stats, err
		}
		series.Append(t, kwh, nil)
	}
	stats.RawRows = series.Len()
	stats.OriginalTotal = series.Sum()

	stats.DuplicatesDropped = series.Dedupe()
	series.Sort()

	// First pass: whole days around the raw readings.
	lo, hi, _ := series.Bounds()
	grid, err := timeseries.Grid(timeseries.FloorDay(lo), timeseries.CeilDay(hi).Add(-interval), interval)
	if err != nil {
		return nil, stats, err
	}
	series.Reindex(grid)
	stats.GapsFilled = series.Interpolate(timeseries.EdgeZero)

	series.Shift(shift)

	// Second pass: bounds re-derived after the shift, capped at the cutoff.
	lo, hi, _ = series.Bounds()
	end := timeseries.MinTime(timeseries.CeilDay(hi).Add(-interval), cutoff)
	grid, err = timeseries.Grid(timeseries.FloorDay(lo), end, interval)
	if err != nil {
		return nil, stats, err
	}
	if len(grid) == 0 {
		return nil, stats, &validation.DegenerateInputError{
			File:   source,
			Reason: fmt.Sprintf("no grid point at or before cutoff %s", cutoff.Format(timeseries.TimeLayout)),
		}
	}
	series.Reindex(grid)
	stats.GapsFilled += series.Interpolate(timeseries.EdgeZero)

	stats.ScaleFactor = conservationScale(stats.OriginalTotal, series.Sum())
	series.Scale(stats.ScaleFactor)

	stats.GridPoints = series.Len()
	stats.Total = series.Sum()
	return series, stats, nil
}

// conservationScale returns the factor that brings current back to
// original. A zero current total yields zero, so the output is all zeros
// instead of NaN.
func conservationScale(original, current float64) float64 {
	if current == 0 {
		return 0
	}
	return original / current
}

func (n *PVNormalizer) parseRecord(source string, rec csvparser.Record) (time.Time, float64, error) {
	if len(rec.Fields) != n.settings.FieldCount {
		return time.Time{}, 0, &validation.SchemaError{
			File:     source,
			Row:      rec.Line,
			Expected: fmt.Sprintf("expected %d fields, got %d", n.settings.FieldCount, len(rec.Fields)),
		}
	}

	rawTime := rec.Fields[pvTimeField]
	t, err := ParseTimestamp(rawTime, n.settings.TimeLayout)
	if err != nil {
		return time.Time{}, 0, &validation.ParseError{
			File:   source,
			Row:    rec.Line,
			Field:  "time",
			Value:  rawTime,
			Format: n.settings.TimeLayout,
			Err:    err,
		}
	}

	rawPower := rec.Fields[pvPowerField]
	power, err := ParseLocaleNumber(rawPower)
	if err != nil {
		return time.Time{}, 0, &validation.ParseError{
			File:   source,
			Row:    rec.Line,
			Field:  "P",
			Value:  rawPower,
			Format: "decimal number",
			Err:    err,
		}
	}

	return t, PerThousand(power), nil
}
