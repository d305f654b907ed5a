// Package metrics exports pipeline statistics in the prometheus text format.
//
// The normalizer is a batch job, so nothing is scraped. Each run fills its own
// registry and, when metrics.textfile_path is set, writes it to a file for
// the node exporter textfile collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/normalizer"
)

const metricPrefix = "spot_pv_normalizer_"

// Metrics bundles the pipeline metrics of one run.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal         *prometheus.CounterVec
	RowsParsed        *prometheus.CounterVec
	DuplicatesDropped *prometheus.CounterVec
	GapsFilled        *prometheus.CounterVec
	OutputPoints      *prometheus.GaugeVec
	SeriesTotal       *prometheus.GaugeVec
	ScaleFactor       prometheus.Gauge
	Duration          *prometheus.HistogramVec
}

// New constructs the metrics and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Pipeline runs by pipeline and status",
			},
			[]string{"pipeline", "status"},
		),
		RowsParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_parsed_total",
				Help: "Raw data rows parsed",
			},
			[]string{"pipeline"},
		),
		DuplicatesDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "duplicates_dropped_total",
				Help: "Rows dropped because their timestamp was already seen",
			},
			[]string{"pipeline"},
		),
		GapsFilled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "gaps_filled_total",
				Help: "Grid points filled by interpolation or edge filling",
			},
			[]string{"pipeline"},
		),
		OutputPoints: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "output_points",
				Help: "Points in the normalized series",
			},
			[]string{"pipeline"},
		),
		SeriesTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "series_total",
				Help: "Sum of the normalized values (EUR/kWh for price, kWh for pv)",
			},
			[]string{"pipeline"},
		),
		ScaleFactor: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "pv_scale_factor",
			Help: "Energy conservation factor applied to the PV series",
		}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "pipeline_duration_seconds",
				Help:    "Pipeline duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pipeline"},
		),
	}
	m.registry.MustRegister(
		m.RunsTotal,
		m.RowsParsed,
		m.DuplicatesDropped,
		m.GapsFilled,
		m.OutputPoints,
		m.SeriesTotal,
		m.ScaleFactor,
		m.Duration,
	)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the outcome of a pipeline run.
func (m *Metrics) ObserveRun(result normalizer.Result) {
	pipeline := string(result.Pipeline)

	status := "success"
	switch {
	case !result.Success:
		status = "failure"
	case result.Reused:
		status = "reused"
	}
	m.RunsTotal.WithLabelValues(pipeline, status).Inc()
	m.Duration.WithLabelValues(pipeline).Observe(result.Stats.ProcessingTime.Seconds())

	if !result.Success {
		return
	}

	stats := result.Stats
	m.RowsParsed.WithLabelValues(pipeline).Add(float64(stats.RawRows))
	m.DuplicatesDropped.WithLabelValues(pipeline).Add(float64(stats.DuplicatesDropped))
	m.GapsFilled.WithLabelValues(pipeline).Add(float64(stats.GapsFilled))
	m.OutputPoints.WithLabelValues(pipeline).Set(float64(stats.GridPoints))
	m.SeriesTotal.WithLabelValues(pipeline).Set(stats.Total)
	if result.Pipeline == normalizer.PipelinePV && !result.Reused {
		m.ScaleFactor.Set(stats.ScaleFactor)
	}
}

// WriteTextfile writes the current values to path in the text exposition
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
