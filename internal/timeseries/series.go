// =============================================================================
// Spot/PV Normalizer - Time Series Types
// =============================================================================
//
// This package contains the in-memory time series used by both normalizer
// pipelines, the output writers and the plotter. It is kept free of any
// pipeline-specific logic to avoid import cycles. Types defined here are
// used by:
//   - normalizer
//   - validation
//   - output
//   - plotter
//
// All timestamps are timezone-naive. They are stored as time.Time values in
// UTC and never converted between zones; a timezone correction is an
// explicit Shift.
//
// =============================================================================

package timeseries

import (
	"sort"
	"time"
)

// TimeLayout is the canonical second-resolution layout used for every
// persisted timestamp.
const TimeLayout = "2006-01-02 15:04:05"

// =============================================================================
// SERIES TYPES
// =============================================================================

// Point is a single sample of a series.
type Point struct {
	// Time is the sample timestamp.
	Time time.Time

	// Value is the numeric value. It is meaningless while Known is false.
	Value float64

	// Known is false for grid slots that did not match any source timestamp
	// and have not been filled yet.
	Known bool

	// Extra holds informational columns carried verbatim from the source row.
	// It is nil on rows inserted by a reindex.
	Extra []string
}

// Series is an ordered sequence of points plus the column names used when
// the series is persisted.
type Series struct {
	// Name is the value column name (e.g. "price_kWh" or "kWh").
	Name string

	// Labels are the names of the informational columns in Point.Extra.
	Labels []string

	// Points are the samples, ascending by time once normalized.
	Points []Point
}

// New creates an empty series with the given value column and label columns.
func New(name string, labels []string) *Series {
	return &Series{Name: name, Labels: labels}
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.Points)
}

// Append adds a known point.
func (s *Series) Append(t time.Time, value float64, extra []string) {
	s.Points = append(s.Points, Point{Time: t, Value: value, Known: true, Extra: extra})
}

// Times returns the timestamps of all points.
func (s *Series) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Values returns the values of all points.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Bounds returns the earliest and latest timestamp. ok is false for an empty
// series.
func (s *Series) Bounds() (min, max time.Time, ok bool) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = s.Points[0].Time, s.Points[0].Time
	for _, p := range s.Points[1:] {
		if p.Time.Before(min) {
			min = p.Time
		}
		if p.Time.After(max) {
			max = p.Time
		}
	}
	return min, max, true
}

// Sum returns the sum of all known values.
func (s *Series) Sum() float64 {
	var total float64
	for _, p := range s.Points {
		if p.Known {
			total += p.Value
		}
	}
	return total
}

// Unknown returns the number of points that are still gaps.
func (s *Series) Unknown() int {
	n := 0
	for _, p := range s.Points {
		if !p.Known {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the series. Extra slices are shared since
// they are never mutated after parsing.
func (s *Series) Clone() *Series {
	c := &Series{Name: s.Name, Labels: append([]string(nil), s.Labels...)}
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// =============================================================================
// TRANSFORMATIONS
// =============================================================================

// Dedupe removes points whose timestamp was already seen, keeping the first
// occurrence in input order, and returns how many were dropped.
func (s *Series) Dedupe() int {
	seen := make(map[time.Time]struct{}, len(s.Points))
	kept := s.Points[:0]
	for _, p := range s.Points {
		if _, dup := seen[p.Time]; dup {
			continue
		}
		seen[p.Time] = struct{}{}
		kept = append(kept, p)
	}
	dropped := len(s.Points) - len(kept)
	s.Points = kept
	return dropped
}

// Sort orders the points by time. Equal timestamps keep their input order.
func (s *Series) Sort() {
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Time.Before(s.Points[j].Time)
	})
}

// Reindex conforms the series to grid. A grid slot takes the point with the
// same timestamp; slots without one become unknown gaps. Points whose
// timestamp is not on the grid are dropped. The series must not contain
// duplicate timestamps.
func (s *Series) Reindex(grid []time.Time) {
	byTime := make(map[time.Time]Point, len(s.Points))
	for _, p := range s.Points {
		byTime[p.Time] = p
	}

	points := make([]Point, len(grid))
	for i, t := range grid {
		if p, ok := byTime[t]; ok {
			points[i] = p
			continue
		}
		points[i] = Point{Time: t}
	}
	s.Points = points
}

// Shift moves every timestamp by d.
func (s *Series) Shift(d time.Duration) {
	for i := range s.Points {
		s.Points[i].Time = s.Points[i].Time.Add(d)
	}
}

// Scale multiplies every known value by factor.
func (s *Series) Scale(factor float64) {
	for i := range s.Points {
		if s.Points[i].Known {
			s.Points[i].Value *= factor
		}
	}
}

// Truncate drops every point after cutoff.
func (s *Series) Truncate(cutoff time.Time) {
	kept := s.Points[:0]
	for _, p := range s.Points {
		if p.Time.After(cutoff) {
			continue
		}
		kept = append(kept, p)
	}
	s.Points = kept
}
