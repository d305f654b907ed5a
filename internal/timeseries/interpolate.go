package timeseries

// EdgePolicy decides how gaps without a known neighbour on one side are
// filled after linear interpolation.
type EdgePolicy int

const (
	// EdgeCarry fills leading gaps with the first known value and trailing
	// gaps with the last known value.
	EdgeCarry EdgePolicy = iota

	// EdgeZero fills leading and trailing gaps with zero.
	EdgeZero
)

// String implements fmt.Stringer.
func (p EdgePolicy) String() string {
	switch p {
	case EdgeCarry:
		return "carry"
	case EdgeZero:
		return "zero"
	default:
		return "unknown"
	}
}

// Interpolate fills every gap of the series and returns the number of points
// it filled. Gaps bounded by known values on both sides are interpolated
// linearly by position, which equals time-linear interpolation on a fixed
// grid. The remaining edge gaps are filled according to edge. A series with
// no known value at all is zero-filled under EdgeZero and left untouched
// under EdgeCarry.
func (s *Series) Interpolate(edge EdgePolicy) int {
	filled := s.interpolateInterior()

	first, last := -1, -1
	for i, p := range s.Points {
		if p.Known {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		if edge != EdgeZero {
			return filled
		}
		for i := range s.Points {
			s.Points[i].Value = 0
			s.Points[i].Known = true
			filled++
		}
		return filled
	}

	lead, trail := s.Points[first].Value, s.Points[last].Value
	if edge == EdgeZero {
		lead, trail = 0, 0
	}
	for i := 0; i < first; i++ {
		s.Points[i].Value = lead
		s.Points[i].Known = true
		filled++
	}
	for i := last + 1; i < len(s.Points); i++ {
		s.Points[i].Value = trail
		s.Points[i].Known = true
		filled++
	}
	return filled
}

func (s *Series) interpolateInterior() int {
	filled := 0
	prev := -1
	for i, p := range s.Points {
		if !p.Known {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			from, to := s.Points[prev].Value, p.Value
			span := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				frac := float64(k-prev) / span
				s.Points[k].Value = from + (to-from)*frac
				s.Points[k].Known = true
				filled++
			}
		}
		prev = i
	}
	return filled
}
