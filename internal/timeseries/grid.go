package timeseries

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Grid returns the fixed-step timestamps start, start+step, ... up to and
// including end when end lies on the grid. An end before start yields an
// empty grid.
func Grid(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("grid step must be positive, got %s", step)
	}
	if end.Before(start) {
		return []time.Time{}, nil
	}

	n := int(end.Sub(start)/step) + 1
	grid := make([]time.Time, n)
	for i := range grid {
		grid[i] = start.Add(time.Duration(i) * step)
	}
	return grid, nil
}

// FloorDay returns midnight at the start of t's calendar day.
func FloorDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CeilDay returns the midnight that closes t's calendar day. A timestamp at
// exactly midnight belongs to the day it starts, so its ceiling is the next
// midnight.
func CeilDay(t time.Time) time.Time {
	return FloorDay(t).Add(day)
}

// MinTime returns the earlier of a and b.
func MinTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
