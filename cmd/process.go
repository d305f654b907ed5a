// =============================================================================
// Spot/PV Normalizer - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs both normalization
// pipelines and optionally renders the comparison report.
//
// COMMAND USAGE:
//   normalizer process [flags]
//
// PROCESSING PIPELINE:
//   1. Apply command line overrides to the configuration
//   2. Run the price and PV pipelines concurrently
//   3. Print one line per pipeline and a summary
//   4. Write the summary log and the metrics textfile, if configured
//   5. Render the day comparison report when --plot is set and both
//      pipelines succeeded
//
// A failing pipeline does not stop the other one. The command exits non-zero
// if any pipeline failed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/metrics"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/normalizer"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/plotter"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/pkg/utils"
)

var processFlags pipelineFlags

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Normalize the spot price and PV exports",
	Long: `The process command runs the price and the PV pipeline side by side.

Each pipeline reads its raw export, aligns it on the configured grid, fills
gaps and writes a two-column CSV (Time, value). The PV pipeline additionally
applies the timezone shift, caps the series at the cutoff and rescales it so
that the total energy matches the raw export.

Errors in one pipeline do not affect the other.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := processFlags.apply(cmd, app.cfg); err != nil {
			return err
		}
		return runPipelines(normalizer.PipelinePrice, normalizer.PipelinePV)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processFlags.addCommon(processCmd)
	processFlags.addPrice(processCmd)
	processFlags.addPV(processCmd)
	processFlags.addPlot(processCmd)
}

// =============================================================================
// PIPELINE EXECUTION
// =============================================================================

// runPipelines runs the given pipelines concurrently and reports on them.
func runPipelines(pipelines ...normalizer.Pipeline) error {
	startTime := time.Now()
	log := app.entry("process")
	recorder := metrics.New()

	var wg sync.WaitGroup
	results := make(chan normalizer.Result, len(pipelines))

	for _, p := range pipelines {
		wg.Add(1)
		go func(p normalizer.Pipeline) {
			defer wg.Done()
			runner := normalizer.NewRunner(app.cfg, app.entry(string(p)), recorder)
			switch p {
			case normalizer.PipelinePrice:
				results <- runner.RunPrice()
			case normalizer.PipelinePV:
				results <- runner.RunPV()
			}
		}(p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	byPipeline := make(map[normalizer.Pipeline]normalizer.Result, len(pipelines))
	for result := range results {
		byPipeline[result.Pipeline] = result
	}

	// Report in the order requested, not in completion order.
	var failed int
	summary := utils.ProcessingSummary{RunID: app.runID, StartTime: startTime}
	for _, p := range pipelines {
		result := byPipeline[p]
		summary.Pipelines = append(summary.Pipelines, pipelineInfo(result))
		printResult(result)
		if !result.Success {
			failed++
		}
	}
	summary.EndTime = time.Now()

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Pipelines:       %d\n", len(pipelines))
	fmt.Printf("Successful:      %d\n", len(pipelines)-failed)
	fmt.Printf("Errors:          %d\n", failed)
	fmt.Printf("Time elapsed:    %s\n", summary.EndTime.Sub(startTime).Round(time.Millisecond))

	if dir := app.cfg.SummaryDir; dir != "" {
		path, err := utils.WriteSummaryLog(summary, dir)
		if err != nil {
			log.Warnf("Failed to write summary log: %v", err)
		} else {
			log.Infof("Summary written to %s", path)
		}
	}

	if path := app.cfg.Metrics.TextfilePath; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			log.Warnf("Failed to write metrics: %v", err)
		} else {
			log.Debugf("Metrics written to %s", path)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pipeline(s) failed", failed, len(pipelines))
	}

	if app.cfg.Plot.Enabled && len(pipelines) > 1 {
		pv, price := byPipeline[normalizer.PipelinePV], byPipeline[normalizer.PipelinePrice]
		if pv.Series == nil || price.Series == nil {
			log.Warnf("Plotting needs both pipelines, skipping the report")
			return nil
		}
		return renderReport(pv.Series, price.Series)
	}

	return nil
}

// renderReport samples common days of both series and renders them.
func renderReport(pv, price *timeseries.Series) error {
	log := app.entry("plot")
	settings := app.cfg.Plot

	report, err := plotter.Plot(pv, price, plotter.Options{
		Days:     settings.Days,
		XLSXPath: settings.XLSXPath,
		PDFPath:  settings.PDFPath,
	}, plotter.NewRand(settings.Seed))
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if len(report.Days) == 0 {
		log.Warnf("The series share no day, nothing to plot")
		fmt.Println("No common day between the PV and price series.")
		return nil
	}

	days := make([]string, len(report.Days))
	for i, d := range report.Days {
		days[i] = d.Format(plotter.DayLayout)
	}
	log.WithField("days", days).Infof("Plotted %d of %d common day(s)", len(report.Days), report.CommonDays)

	fmt.Printf("\nPlotted %d of %d common day(s): %v\n", len(report.Days), report.CommonDays, days)
	for _, f := range report.Files {
		fmt.Printf("  -> %s\n", f)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func printResult(result normalizer.Result) {
	name := filepath.Base(result.InputFile)
	switch {
	case !result.Success:
		fmt.Printf("  ✗ %-5s %s: %v\n", result.Pipeline, name, result.Error)
	case result.Reused:
		fmt.Printf("  ✓ %-5s %s (reused existing output)\n", result.Pipeline, name)
	case len(result.OutputFiles) == 0:
		fmt.Printf("  ✓ %-5s %s (%d points, not written)\n", result.Pipeline, name, result.Stats.GridPoints)
	default:
		fmt.Printf("  ✓ %-5s %s -> %v\n", result.Pipeline, name, result.OutputFiles)
	}
}

func pipelineInfo(result normalizer.Result) utils.PipelineInfo {
	info := utils.PipelineInfo{
		Name:        string(result.Pipeline),
		InputFile:   result.InputFile,
		OutputFiles: result.OutputFiles,
		Reused:      result.Reused,
		RawRows:     result.Stats.RawRows,
		Duplicates:  result.Stats.DuplicatesDropped,
		GapsFilled:  result.Stats.GapsFilled,
		GridPoints:  result.Stats.GridPoints,
		Total:       result.Stats.Total,
		ProcessTime: result.Stats.ProcessingTime,
	}
	if result.Error != nil {
		info.ErrorMessage = result.Error.Error()
	}
	return info
}
