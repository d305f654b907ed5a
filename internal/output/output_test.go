package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
)

func ts(hour, minute int) time.Time {
	return time.Date(2023, 1, 1, hour, minute, 0, 0, time.UTC)
}

func priceSeries() *timeseries.Series {
	s := timeseries.New("price_kWh", []string{"DE Info"})
	s.Append(ts(0, 0), 0.005, []string{"a"})
	s.Append(ts(0, 15), 0.004, nil)
	s.Append(ts(0, 30), 0.003, []string{"c"})
	return s
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, priceSeries()))

	want := "Time,DE Info,price_kWh\n" +
		"2023-01-01 00:00:00,a,0.005\n" +
		"2023-01-01 00:15:00,,0.004\n" +
		"2023-01-01 00:30:00,c,0.003\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_NoLabels(t *testing.T) {
	s := timeseries.New("kWh", nil)
	s.Append(ts(1, 0), 0.1, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.Equal(t, "Time,kWh\n2023-01-01 01:00:00,0.1\n", buf.String())
}

func TestCSVFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "price.csv")
	require.NoError(t, WriteCSVFile(path, priceSeries()))

	got, err := ReadCSVFile(path)
	require.NoError(t, err)

	assert.Equal(t, "price_kWh", got.Name)
	assert.Equal(t, []string{"DE Info"}, got.Labels)
	assert.Equal(t, []float64{0.005, 0.004, 0.003}, got.Values())
	assert.Equal(t, ts(0, 15), got.Points[1].Time)
	assert.Equal(t, []string{""}, got.Points[1].Extra)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty",
			input: "",
			check: func(t *testing.T, err error) {
				var target *validation.DegenerateInputError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:  "bad header",
			input: "Date,kWh\n",
			check: func(t *testing.T, err error) {
				var target *validation.SchemaError
				assert.True(t, errors.As(err, &target))
			},
		},
		{
			name:  "bad time",
			input: "Time,kWh\n1.1.2023,0.1\n",
			check: func(t *testing.T, err error) {
				var target *validation.ParseError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, 2, target.Row)
			},
		},
		{
			name:  "bad value",
			input: "Time,kWh\n2023-01-01 00:00:00,x\n",
			check: func(t *testing.T, err error) {
				var target *validation.ParseError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "kWh", target.Field)
			},
		},
		{
			name:  "short row",
			input: "Time,a,kWh\n2023-01-01 00:00:00,0.1\n",
			check: func(t *testing.T, err error) {
				var target *validation.SchemaError
				assert.True(t, errors.As(err, &target))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "in.csv")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParquetPath(t *testing.T) {
	assert.Equal(t, "out/PV.parquet", ParquetPath("out/PV.csv"))
	assert.Equal(t, "price.parquet", ParquetPath("price"))
}

func TestWriteParquetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "price.parquet")
	require.NoError(t, WriteParquetFile(path, priceSeries(), "snappy"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetPoint), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(3), pr.GetNumRows())
	rows := make([]parquetPoint, 3)
	require.NoError(t, pr.Read(&rows))

	assert.Equal(t, ts(0, 0).UnixMilli(), rows[0].Time)
	assert.InDelta(t, 0.003, rows[2].Value, 1e-12)
}

func TestCompressionCodec(t *testing.T) {
	assert.Equal(t, "SNAPPY", compressionCodec("Snappy").String())
	assert.Equal(t, "GZIP", compressionCodec("gzip").String())
	assert.Equal(t, "UNCOMPRESSED", compressionCodec("none").String())
}
