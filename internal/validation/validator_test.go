package validation

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
)

func gridSeries(minutes ...int) *timeseries.Series {
	s := timeseries.New("v", nil)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, m := range minutes {
		s.Append(base.Add(time.Duration(m)*time.Minute), 1, nil)
	}
	return s
}

func TestCheckGrid(t *testing.T) {
	tests := []struct {
		name    string
		series  *timeseries.Series
		wantErr bool
	}{
		{name: "contiguous", series: gridSeries(0, 15, 30, 45)},
		{name: "empty", series: gridSeries()},
		{name: "single point", series: gridSeries(0)},
		{name: "gap in sequence", series: gridSeries(0, 15, 45), wantErr: true},
		{name: "duplicate", series: gridSeries(0, 15, 15), wantErr: true},
		{name: "descending", series: gridSeries(15, 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckGrid(tt.series, 15*time.Minute)
			if tt.wantErr {
				var gridErr *GridError
				assert.True(t, errors.As(err, &gridErr))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckGrid_RejectsUnknownPoint(t *testing.T) {
	s := gridSeries(0, 15)
	s.Points[1].Known = false
	assert.Error(t, CheckGrid(s, 15*time.Minute))
}

func TestErrorMessagesIdentifyLocation(t *testing.T) {
	schema := &SchemaError{File: "prices.csv", Column: "Datum von", Expected: "required column is missing"}
	assert.Contains(t, schema.Error(), "prices.csv")
	assert.Contains(t, schema.Error(), "Datum von")

	_, cause := strconv.ParseFloat("x", 64)
	parse := &ParseError{File: "pv.csv", Row: 12, Field: "P", Value: "x", Format: "decimal number", Err: cause}
	assert.Contains(t, parse.Error(), "pv.csv:12")
	assert.ErrorIs(t, parse, cause)

	degenerate := &DegenerateInputError{File: "pv.csv", Reason: "no data lines"}
	assert.Contains(t, degenerate.Error(), "no data lines")
}
