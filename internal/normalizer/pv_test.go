package normalizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/csvparser"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
)

var defaultCutoff = time.Date(2023, 12, 31, 23, 50, 0, 0, time.UTC)

// pvLines turns "time,P" pairs into full nine-field data lines.
func pvLines(pairs ...string) []csvparser.Record {
	records := make([]csvparser.Record, len(pairs))
	for i, pair := range pairs {
		fields := strings.Split(pair+",0,0,0,0,0,0,0", ",")
		records[i] = csvparser.Record{Line: i + 10, Fields: fields}
	}
	return records
}

func newPVNormalizer() *PVNormalizer {
	return NewPVNormalizer(config.Default().PV)
}

func TestPVNormalize_SingleReading(t *testing.T) {
	series, stats, err := newPVNormalizer().Normalize("pv.csv", pvLines("20230101:0000,100"), quarterHour, defaultCutoff)
	require.NoError(t, err)

	assert.Equal(t, EnergyColumn, series.Name)
	assert.InDelta(t, 0.1, stats.OriginalTotal, 1e-12)

	// Two calendar days: the reading's own day and the day the shifted
	// grid spills into.
	require.Equal(t, 192, series.Len())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), series.Points[0].Time)
	assert.Equal(t, time.Date(2023, 1, 2, 23, 45, 0, 0, time.UTC), series.Points[191].Time)

	for i, p := range series.Points {
		if i == 4 {
			assert.Equal(t, time.Date(2023, 1, 1, 1, 0, 0, 0, time.UTC), p.Time)
			assert.InDelta(t, 0.1, p.Value, 1e-12)
			continue
		}
		assert.Equal(t, 0.0, p.Value, "point %d", i)
	}

	assert.InDelta(t, 0.1, stats.Total, 1e-12)
	assert.InDelta(t, 1.0, stats.ScaleFactor, 1e-12)
	assert.NoError(t, validation.CheckGrid(series, quarterHour))
}

func TestPVNormalize_ConservesEnergy(t *testing.T) {
	series, stats, err := newPVNormalizer().Normalize("pv.csv",
		pvLines("20230101:0000,1000", "20230101:0100,2000", "20230101:0200,500"),
		quarterHour, defaultCutoff)
	require.NoError(t, err)

	// Interpolation inflates the sum to 11.75 before the rescale.
	assert.InDelta(t, 3.5, stats.OriginalTotal, 1e-9)
	assert.InDelta(t, 3.5/11.75, stats.ScaleFactor, 1e-9)
	assert.InDelta(t, 3.5, series.Sum(), 1e-9)
	assert.InDelta(t, 3.5, stats.Total, 1e-9)

	// The 00:00 reading lands at 01:00 after the shift; 00:00 is a leading
	// gap and therefore zero, not carried.
	assert.Equal(t, 0.0, series.Points[0].Value)
	assert.InDelta(t, 1.0*3.5/11.75, series.Points[4].Value, 1e-9)
	assert.InDelta(t, 1.25*3.5/11.75, series.Points[5].Value, 1e-9)
}

func TestPVNormalize_EnforcesCutoff(t *testing.T) {
	series, stats, err := newPVNormalizer().Normalize("pv.csv",
		pvLines("20231231:2200,1000", "20231231:2300,1000"),
		quarterHour, defaultCutoff)
	require.NoError(t, err)

	last := series.Points[series.Len()-1].Time
	assert.False(t, last.After(defaultCutoff))
	assert.Equal(t, time.Date(2023, 12, 31, 23, 45, 0, 0, time.UTC), last)
	for _, p := range series.Points {
		assert.False(t, p.Time.After(defaultCutoff))
	}

	// The shifted 23:00 reading fell past the cutoff; the rescale puts its
	// energy back into what is left.
	assert.InDelta(t, 2.0, stats.OriginalTotal, 1e-9)
	assert.InDelta(t, 2.0, series.Sum(), 1e-9)
}

func TestPVNormalize_CutoffBeforeDataIsDegenerate(t *testing.T) {
	cutoff := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := newPVNormalizer().Normalize("pv.csv", pvLines("20230101:1200,100"), quarterHour, cutoff)

	var degenerate *validation.DegenerateInputError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, "pv.csv", degenerate.File)
}

func TestPVNormalize_ZeroProductionYieldsZeros(t *testing.T) {
	series, stats, err := newPVNormalizer().Normalize("pv.csv",
		pvLines("20230101:0000,0", "20230101:0100,0.0"),
		quarterHour, defaultCutoff)
	require.NoError(t, err)

	assert.Equal(t, 0.0, stats.ScaleFactor)
	for _, p := range series.Points {
		assert.Equal(t, 0.0, p.Value)
		assert.True(t, p.Known)
	}
}

func TestPVNormalize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records []csvparser.Record
		target  interface{}
	}{
		{
			name:    "no data lines",
			records: nil,
			target:  new(*validation.DegenerateInputError),
		},
		{
			name:    "too few fields",
			records: []csvparser.Record{{Line: 3, Fields: []string{"20230101:0000", "100"}}},
			target:  new(*validation.SchemaError),
		},
		{
			name:    "bad time",
			records: pvLines("2023-01-01 00:00,100"),
			target:  new(*validation.ParseError),
		},
		{
			name:    "bad power",
			records: pvLines("20230101:0000,abc"),
			target:  new(*validation.ParseError),
		},
	}

	n := newPVNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := n.Normalize("pv.csv", tt.records, quarterHour, defaultCutoff)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target), "unexpected error type %T", err)
		})
	}
}

func TestPVNormalize_CustomShift(t *testing.T) {
	settings := config.Default().PV
	settings.TimezoneShift = "0s"

	series, _, err := NewPVNormalizer(settings).Normalize("pv.csv", pvLines("20230101:0000,100"), quarterHour, defaultCutoff)
	require.NoError(t, err)

	require.Equal(t, 96, series.Len())
	assert.InDelta(t, 0.1, series.Points[0].Value, 1e-12)
}

func TestConservationScale(t *testing.T) {
	assert.Equal(t, 0.0, conservationScale(5, 0))
	assert.Equal(t, 2.0, conservationScale(4, 2))
}
