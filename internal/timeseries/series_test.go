package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func TestGrid_InclusiveBounds(t *testing.T) {
	grid, err := Grid(at(0), at(60), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{at(0), at(15), at(30), at(45), at(60)}, grid)
}

func TestGrid_UnalignedEndStopsBefore(t *testing.T) {
	grid, err := Grid(at(0), at(50), 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, at(45), grid[len(grid)-1])
	assert.Len(t, grid, 4)
}

func TestGrid_EndBeforeStartIsEmpty(t *testing.T) {
	grid, err := Grid(at(60), at(0), 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestGrid_RejectsNonPositiveStep(t *testing.T) {
	_, err := Grid(at(0), at(60), 0)
	assert.Error(t, err)
}

func TestFloorAndCeilDay(t *testing.T) {
	noon := time.Date(2023, 3, 4, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC), FloorDay(noon))
	assert.Equal(t, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), CeilDay(noon))

	midnight := time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, midnight, FloorDay(midnight))
	assert.Equal(t, time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC), CeilDay(midnight))
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	s := New("v", nil)
	s.Append(at(0), 1, nil)
	s.Append(at(15), 2, nil)
	s.Append(at(0), 99, nil)

	dropped := s.Dedupe()
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []float64{1, 2}, s.Values())
}

func TestReindex_InsertsGapsAndDropsOffGrid(t *testing.T) {
	s := New("v", []string{"extra"})
	s.Append(at(0), 1, []string{"a"})
	s.Append(at(10), 7, []string{"off"})
	s.Append(at(30), 3, []string{"c"})

	grid, err := Grid(at(0), at(30), 15*time.Minute)
	require.NoError(t, err)
	s.Reindex(grid)

	require.Len(t, s.Points, 3)
	assert.True(t, s.Points[0].Known)
	assert.False(t, s.Points[1].Known)
	assert.Nil(t, s.Points[1].Extra)
	assert.Equal(t, []string{"c"}, s.Points[2].Extra)
}

func TestInterpolate_LinearInterior(t *testing.T) {
	s := New("v", nil)
	s.Append(at(0), 1, nil)
	s.Append(at(45), 4, nil)
	grid, _ := Grid(at(0), at(45), 15*time.Minute)
	s.Reindex(grid)

	filled := s.Interpolate(EdgeCarry)
	assert.Equal(t, 2, filled)
	vals := s.Values()
	assert.InDelta(t, 2.0, vals[1], 1e-12)
	assert.InDelta(t, 3.0, vals[2], 1e-12)
}

func TestInterpolate_EdgePolicies(t *testing.T) {
	build := func() *Series {
		s := New("v", nil)
		s.Append(at(15), 5, nil)
		s.Append(at(30), 6, nil)
		grid, _ := Grid(at(0), at(60), 15*time.Minute)
		s.Reindex(grid)
		return s
	}

	carry := build()
	carry.Interpolate(EdgeCarry)
	assert.Equal(t, []float64{5, 5, 6, 6, 6}, carry.Values())

	zero := build()
	zero.Interpolate(EdgeZero)
	assert.Equal(t, []float64{0, 5, 6, 0, 0}, zero.Values())
	assert.Zero(t, zero.Unknown())
}

func TestInterpolate_AllUnknown(t *testing.T) {
	grid, _ := Grid(at(0), at(30), 15*time.Minute)

	z := New("v", nil)
	z.Reindex(grid)
	z.Interpolate(EdgeZero)
	assert.Equal(t, []float64{0, 0, 0}, z.Values())

	c := New("v", nil)
	c.Reindex(grid)
	c.Interpolate(EdgeCarry)
	assert.Equal(t, 3, c.Unknown())
}

func TestShiftScaleSumTruncate(t *testing.T) {
	s := New("v", nil)
	s.Append(at(0), 1, nil)
	s.Append(at(15), 3, nil)

	s.Shift(time.Hour)
	assert.Equal(t, at(60), s.Points[0].Time)

	s.Scale(0.5)
	assert.InDelta(t, 2.0, s.Sum(), 1e-12)

	s.Truncate(at(60))
	assert.Len(t, s.Points, 1)

	min, max, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, at(60), min)
	assert.Equal(t, at(60), max)
}
