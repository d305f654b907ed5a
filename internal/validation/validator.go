// =============================================================================
// Spot/PV Normalizer - Validation
// =============================================================================
//
// This package defines the error taxonomy shared by both pipelines and the
// post-condition check that every normalized series must pass before it is
// persisted.
//
// ERROR TAXONOMY:
//   - SchemaError          : a required column is missing, or a data line has
//                            the wrong number of fields
//   - ParseError           : a timestamp or number cannot be parsed
//   - DegenerateInputError : not enough data to build a non-empty grid
//
// All of them are fatal for the pipeline that raised them. There is no
// skip-and-continue policy: a single malformed record aborts the run for
// that input.
//
// =============================================================================

package validation

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// SchemaError reports input whose structure does not match what the pipeline
// expects.
type SchemaError struct {
	// File is the input file.
	File string

	// Row is the 1-indexed line in the file. 0 means the header or the file
	// as a whole.
	Row int

	// Column is the column involved, if any.
	Column string

	// Expected describes the violated expectation.
	Expected string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	loc := e.File
	if e.Row > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Row)
	}
	if e.Column != "" {
		return fmt.Sprintf("schema error in %s: column %q: %s", loc, e.Column, e.Expected)
	}
	return fmt.Sprintf("schema error in %s: %s", loc, e.Expected)
}

// ParseError reports a field that could not be parsed in the expected format.
type ParseError struct {
	File   string
	Row    int
	Field  string
	Value  string
	Format string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error in %s:%d: field %q value %q does not match %s",
		e.File, e.Row, e.Field, e.Value, e.Format)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// DegenerateInputError reports input that yields no usable grid.
type DegenerateInputError struct {
	File   string
	Reason string
}

// Error implements the error interface.
func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input %s: %s", e.File, e.Reason)
}

// =============================================================================
// GRID POST-CONDITION
// =============================================================================

// GridError reports a normalized series that is not a complete fixed-step
// grid. It signals a bug in the pipeline, not bad input.
type GridError struct {
	Series string
	Index  int
	Reason string
}

// Error implements the error interface.
func (e *GridError) Error() string {
	return fmt.Sprintf("series %q is not a complete grid at point %d: %s", e.Series, e.Index, e.Reason)
}

// CheckGrid verifies that s is strictly increasing, contiguous at step, and
// has no unfilled points.
//
// PARAMETERS:
//   - s: The normalized series.
//   - step: The configured interval.
//
// RETURNS:
//   - nil if the series is a complete grid, a *GridError otherwise.
func CheckGrid(s *timeseries.Series, step time.Duration) error {
	for i, p := range s.Points {
		if !p.Known {
			return &GridError{Series: s.Name, Index: i, Reason: "value is a gap"}
		}
		if i == 0 {
			continue
		}
		prev := s.Points[i-1].Time
		switch delta := p.Time.Sub(prev); {
		case delta <= 0:
			return &GridError{Series: s.Name, Index: i, Reason: fmt.Sprintf("timestamp %s not after %s",
				p.Time.Format(timeseries.TimeLayout), prev.Format(timeseries.TimeLayout))}
		case delta != step:
			return &GridError{Series: s.Name, Index: i, Reason: fmt.Sprintf("step %s, want %s", delta, step)}
		}
	}
	return nil
}
