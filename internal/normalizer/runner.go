// =============================================================================
// Spot/PV Normalizer - Runner
// =============================================================================
//
// The runner orchestrates one pipeline for one input file:
//   1. Reuse the existing output when skip_existing is set
//   2. Read the raw file
//   3. Normalize it
//   4. Check the grid post-condition
//   5. Persist the series (CSV, optionally Parquet)
//
// CONCURRENCY:
//   A Runner holds no mutable state. The price and PV pipelines may run on
//   the same Runner from different goroutines as long as the Logger and
//   Recorder are safe for concurrent use (logrus and prometheus both are).
//
// =============================================================================

package normalizer

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/output"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/validation"
	"github.com/ginjaninja78/spot-pv-normalizer/pkg/utils"
)

// Pipeline names a normalization pipeline.
type Pipeline string

const (
	PipelinePrice Pipeline = "price"
	PipelinePV    Pipeline = "pv"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one pipeline run.
type Result struct {
	// Pipeline is the pipeline that ran.
	Pipeline Pipeline

	// InputFile is the raw input.
	InputFile string

	// OutputFiles lists every file written. Empty when persistence is off,
	// when the run failed, or when an existing output was reused.
	OutputFiles []string

	// Series is the normalized series. Nil if the run failed.
	Series *timeseries.Series

	// Reused is true when the series was loaded from an existing output.
	Reused bool

	// Success indicates whether the run was successful.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one pipeline run.
type ProcessingStats struct {
	// RawRows is the number of data rows parsed from the input.
	RawRows int

	// DuplicatesDropped is the number of rows dropped by deduplication.
	DuplicatesDropped int

	// GridPoints is the number of points in the normalized series.
	GridPoints int

	// GapsFilled is the number of grid points filled by interpolation or
	// edge filling, summed over every pass.
	GapsFilled int

	// Total is the sum of the normalized values.
	Total float64

	// OriginalTotal is the raw energy total (PV only).
	OriginalTotal float64

	// ScaleFactor is the energy-conservation factor applied (PV only).
	ScaleFactor float64

	// ProcessingTime is the time taken by the run.
	ProcessingTime time.Duration
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Logger is the logging surface the runner needs. *logrus.Entry and
// *logrus.Logger satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Recorder receives the outcome of every run.
type Recorder interface {
	ObserveRun(result Result)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(Result) {}

// =============================================================================
// RUNNER
// =============================================================================

// Runner runs the pipelines with one configuration.
type Runner struct {
	cfg      *config.MainConfig
	logger   Logger
	recorder Recorder
}

// NewRunner creates a Runner. A nil recorder disables metrics.
func NewRunner(cfg *config.MainConfig, logger Logger, recorder Recorder) *Runner {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Runner{cfg: cfg, logger: logger, recorder: recorder}
}

// RunPrice runs the price pipeline on price.input_path.
func (r *Runner) RunPrice() Result {
	settings := r.cfg.Price
	n := NewPriceNormalizer(settings)

	return r.run(PipelinePrice, settings.InputPath, settings.OutputPath, func() (*timeseries.Series, ProcessingStats, error) {
		data, err := n.Read(settings.InputPath)
		if err != nil {
			return nil, ProcessingStats{}, fmt.Errorf("failed to read price input: %w", err)
		}
		r.logger.Debugf("Parsed %d price rows with %d columns", len(data.Records), len(data.Headers))
		return n.Normalize(data, r.cfg.Interval())
	})
}

// RunPV runs the PV pipeline on pv.input_path.
func (r *Runner) RunPV() Result {
	settings := r.cfg.PV
	n := NewPVNormalizer(settings)

	return r.run(PipelinePV, settings.InputPath, settings.OutputPath, func() (*timeseries.Series, ProcessingStats, error) {
		cutoff, err := settings.CutoffTime()
		if err != nil {
			return nil, ProcessingStats{}, err
		}
		records, err := n.Read(settings.InputPath)
		if err != nil {
			return nil, ProcessingStats{}, fmt.Errorf("failed to read pv input: %w", err)
		}
		r.logger.Debugf("Found %d PV data lines", len(records))
		return n.Normalize(settings.InputPath, records, r.cfg.Interval(), cutoff)
	})
}

// run wraps a normalize step with the skip-existing check, the grid check,
// persistence, logging and metrics.
func (r *Runner) run(pipeline Pipeline, input, outputPath string, normalize func() (*timeseries.Series, ProcessingStats, error)) (result Result) {
	startTime := time.Now()
	result = Result{Pipeline: pipeline, InputFile: input}
	defer func() {
		result.Stats.ProcessingTime = time.Since(startTime)
		r.recorder.ObserveRun(result)
	}()

	if r.cfg.SkipExisting && outputPath != "" && utils.FileExists(outputPath) {
		series, err := output.ReadCSVFile(outputPath)
		if err != nil {
			result.Error = fmt.Errorf("failed to reuse %s: %w", outputPath, err)
			r.logger.Errorf("%v", result.Error)
			return result
		}
		r.logger.Infof("Output %s exists, skipping %s pipeline", outputPath, pipeline)
		result.Series = series
		result.Reused = true
		result.Success = true
		result.Stats.GridPoints = series.Len()
		result.Stats.Total = series.Sum()
		return result
	}

	r.logger.Infof("Processing %s input: %s", pipeline, input)

	series, stats, err := normalize()
	result.Stats = stats
	if err != nil {
		result.Error = err
		r.logger.Errorf("%s pipeline failed: %v", pipeline, err)
		return result
	}

	if err := validation.CheckGrid(series, r.cfg.Interval()); err != nil {
		result.Error = fmt.Errorf("normalized series failed the grid check: %w", err)
		r.logger.Errorf("%v", result.Error)
		return result
	}

	r.logger.Debugf("%s: %d raw rows, %d duplicates dropped, %d gaps filled, %d grid points",
		pipeline, stats.RawRows, stats.DuplicatesDropped, stats.GapsFilled, stats.GridPoints)
	if pipeline == PipelinePV {
		r.logger.Debugf("pv: original total %.6f kWh, scale factor %.6f", stats.OriginalTotal, stats.ScaleFactor)
	}

	if r.cfg.Persist() && outputPath != "" {
		files, err := r.persist(series, outputPath)
		result.OutputFiles = files
		if err != nil {
			result.Error = err
			r.logger.Errorf("%s pipeline failed to write output: %v", pipeline, err)
			return result
		}
	}

	result.Series = series
	result.Success = true
	r.logger.Infof("%s pipeline finished: %d points, total %.6f", pipeline, stats.GridPoints, stats.Total)
	return result
}

// persist writes the series in every configured format.
func (r *Runner) persist(series *timeseries.Series, outputPath string) ([]string, error) {
	var written []string

	if err := utils.EnsureParentDir(outputPath); err != nil {
		return written, err
	}

	if r.cfg.WantsFormat(output.FormatCSV) {
		if err := output.WriteCSVFile(outputPath, series); err != nil {
			return written, fmt.Errorf("failed to write CSV: %w", err)
		}
		written = append(written, outputPath)
		r.logger.Debugf("Wrote %s", outputPath)
	}

	if r.cfg.WantsFormat(output.FormatParquet) {
		path := output.ParquetPath(outputPath)
		if err := output.WriteParquetFile(path, series, r.cfg.ParquetCompression); err != nil {
			return written, fmt.Errorf("failed to write Parquet: %w", err)
		}
		written = append(written, path)
		r.logger.Debugf("Wrote %s", path)
	}

	return written, nil
}
