package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/normalizer"
)

func TestObserveRun_Success(t *testing.T) {
	m := New()
	m.ObserveRun(normalizer.Result{
		Pipeline: normalizer.PipelinePV,
		Success:  true,
		Stats: normalizer.ProcessingStats{
			RawRows:           8760,
			DuplicatesDropped: 2,
			GapsFilled:        26280,
			GridPoints:        35040,
			Total:             4321.5,
			ScaleFactor:       0.25,
			ProcessingTime:    120 * time.Millisecond,
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("pv", "success")))
	assert.Equal(t, 8760.0, testutil.ToFloat64(m.RowsParsed.WithLabelValues("pv")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DuplicatesDropped.WithLabelValues("pv")))
	assert.Equal(t, 35040.0, testutil.ToFloat64(m.OutputPoints.WithLabelValues("pv")))
	assert.Equal(t, 4321.5, testutil.ToFloat64(m.SeriesTotal.WithLabelValues("pv")))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.ScaleFactor))
}

func TestObserveRun_FailureOnlyCountsRun(t *testing.T) {
	m := New()
	m.ObserveRun(normalizer.Result{
		Pipeline: normalizer.PipelinePrice,
		Error:    errors.New("boom"),
		Stats:    normalizer.ProcessingStats{RawRows: 10},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("price", "failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RowsParsed.WithLabelValues("price")))
}

func TestObserveRun_Reused(t *testing.T) {
	m := New()
	m.ObserveRun(normalizer.Result{Pipeline: normalizer.PipelinePrice, Success: true, Reused: true})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("price", "reused")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRun(normalizer.Result{Pipeline: normalizer.PipelinePrice, Success: true})

	path := filepath.Join(t.TempDir(), "normalizer.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `spot_pv_normalizer_runs_total{pipeline="price",status="success"} 1`)
}
