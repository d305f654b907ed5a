// =============================================================================
// Spot/PV Normalizer - File Utilities
// =============================================================================
//
// This module provides the file helpers shared by the pipelines and the CLI:
//   - Existence checks for the skip-existing mode
//   - Parent directory creation for output paths
//   - The per-run processing summary
//
// Every run gets a UUID. It tags the log entries of the run and names the
// summary file, so two runs started in the same second do not collide.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE HELPERS
// =============================================================================

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	Pipelines []PipelineInfo
}

// PipelineInfo describes the outcome of one pipeline.
type PipelineInfo struct {
	Name         string
	InputFile    string
	OutputFiles  []string
	Reused       bool
	RawRows      int
	Duplicates   int
	GapsFilled   int
	GridPoints   int
	Total        float64
	ProcessTime  time.Duration
	ErrorMessage string
}

// Failed reports whether the pipeline ended with an error.
func (p PipelineInfo) Failed() bool {
	return p.ErrorMessage != ""
}

// WriteSummaryLog writes a processing summary to a text file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create summary directory: %w", err)
	}

	runID := summary.RunID
	if runID == "" {
		runID = NewRunID()
	}
	summaryFileName := fmt.Sprintf("processing_summary_%s_%s.txt",
		summary.StartTime.Format("20060102_150405"), runID)
	summaryPath := filepath.Join(outputDir, summaryFileName)

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	failed := 0
	for _, p := range summary.Pipelines {
		if p.Failed() {
			failed++
		}
	}

	fmt.Fprintf(writer, "Spot/PV Normalizer - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Pipelines:      %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n\n",
		runID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		len(summary.Pipelines),
		len(summary.Pipelines)-failed,
		failed)

	for _, p := range summary.Pipelines {
		fmt.Fprintf(writer, "Pipeline %s:\n", p.Name)
		writer.WriteString("--------------------------------------------------------------------------------\n")
		fmt.Fprintf(writer, "  Input:        %s\n", p.InputFile)
		if p.Failed() {
			fmt.Fprintf(writer, "  Error:        %s\n\n", p.ErrorMessage)
			continue
		}
		for _, out := range p.OutputFiles {
			fmt.Fprintf(writer, "  Output:       %s\n", out)
		}
		if p.Reused {
			writer.WriteString("  Reused:       existing output\n")
		}
		fmt.Fprintf(writer, "  Raw Rows:     %d\n", p.RawRows)
		fmt.Fprintf(writer, "  Duplicates:   %d\n", p.Duplicates)
		fmt.Fprintf(writer, "  Gaps Filled:  %d\n", p.GapsFilled)
		fmt.Fprintf(writer, "  Grid Points:  %d\n", p.GridPoints)
		fmt.Fprintf(writer, "  Total:        %.6f\n", p.Total)
		fmt.Fprintf(writer, "  Process Time: %s\n\n", p.ProcessTime.String())
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
