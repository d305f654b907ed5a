// =============================================================================
// Spot/PV Normalizer - Plotter
// =============================================================================
//
// The plotter is a consumer of the two normalized series. It picks calendar
// days covered by both, samples a few of them and renders one comparison per
// day: PV energy on the left, price on the right.
//
// RENDERERS:
//   - XLSX: one sheet per day with the data and two native line charts
//   - PDF:  one landscape page per day with two line panels
//
// Sampling draws from an injected *rand.Rand so a fixed seed always picks
// the same days.
//
// =============================================================================

package plotter

import (
	"math/rand"
	"sort"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

const day = 24 * time.Hour

// DayView is the slice of both series that falls on one calendar day.
type DayView struct {
	// Day is midnight at the start of the day.
	Day time.Time

	PV    []timeseries.Point
	Price []timeseries.Point
}

// days returns the set of calendar days s has at least one point on.
func days(s *timeseries.Series) map[time.Time]struct{} {
	set := make(map[time.Time]struct{})
	for _, p := range s.Points {
		set[timeseries.FloorDay(p.Time)] = struct{}{}
	}
	return set
}

// CommonDays returns the calendar days covered by both series, ascending.
func CommonDays(a, b *timeseries.Series) []time.Time {
	inB := days(b)
	var common []time.Time
	for d := range days(a) {
		if _, ok := inB[d]; ok {
			common = append(common, d)
		}
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })
	return common
}

// SelectDays samples min(n, len(candidates)) days without replacement and
// returns them in ascending order.
func SelectDays(candidates []time.Time, n int, rng *rand.Rand) []time.Time {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}

	picked := make([]time.Time, n)
	for i, idx := range rng.Perm(len(candidates))[:n] {
		picked[i] = candidates[idx]
	}
	sort.Slice(picked, func(i, j int) bool { return picked[i].Before(picked[j]) })
	return picked
}

// BuildViews cuts both series into [day, day+24h) windows.
func BuildViews(pv, price *timeseries.Series, selected []time.Time) []DayView {
	views := make([]DayView, len(selected))
	for i, d := range selected {
		views[i] = DayView{
			Day:   d,
			PV:    window(pv, d, d.Add(day)),
			Price: window(price, d, d.Add(day)),
		}
	}
	return views
}

// window returns the points of s in [from, to). s must be sorted.
func window(s *timeseries.Series, from, to time.Time) []timeseries.Point {
	lo := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Time.Before(from) })
	hi := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Time.Before(to) })
	return s.Points[lo:hi]
}

// valueRange returns the smallest and largest value in points, widened so
// a flat line still gets a non-empty axis.
func valueRange(points []timeseries.Point) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 1
	}
	lo, hi = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < lo {
			lo = p.Value
		}
		if p.Value > hi {
			hi = p.Value
		}
	}
	if hi == lo {
		lo, hi = lo-0.5, hi+0.5
		if lo < 0 && points[0].Value >= 0 {
			lo = 0
		}
	}
	return lo, hi
}
