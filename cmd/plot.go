// =============================================================================
// Spot/PV Normalizer - Plot Command
// =============================================================================
//
// This file defines the 'plot' command, which renders the day comparison
// report from two already normalized series.
//
// COMMAND USAGE:
//   normalizer plot [--pv FILE] [--price FILE] [--days N] [--seed N]
//                   [--xlsx FILE] [--pdf FILE]
//
// By default the series are read from the configured output paths.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/output"
)

var (
	plotPVPath    string
	plotPricePath string
	plotDays      int
	plotSeed      int64
	plotXLSXPath  string
	plotPDFPath   string
)

// plotCmd represents the 'plot' command.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render a day comparison of normalized PV and price series",
	Long: `The plot command picks random days covered by both normalized series and
renders, per day, the PV production next to the spot price. The report is
written as an XLSX workbook with one chart sheet per day and as a PDF with
one page per day.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlot(cmd)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringVar(&plotPVPath, "pv", "", "Normalized PV CSV (default pv.output_path)")
	plotCmd.Flags().StringVar(&plotPricePath, "price", "", "Normalized price CSV (default price.output_path)")
	plotCmd.Flags().IntVar(&plotDays, "days", 3, "Number of days to plot")
	plotCmd.Flags().Int64Var(&plotSeed, "seed", 0, "Seed for the day sampler (0 = random)")
	plotCmd.Flags().StringVar(&plotXLSXPath, "xlsx", "", "Workbook report (default plot.xlsx_path)")
	plotCmd.Flags().StringVar(&plotPDFPath, "pdf", "", "PDF report (default plot.pdf_path)")
}

func runPlot(cmd *cobra.Command) error {
	cfg := app.cfg
	changed := cmd.Flags().Changed

	pvPath, pricePath := cfg.PV.OutputPath, cfg.Price.OutputPath
	if changed("pv") {
		pvPath = plotPVPath
	}
	if changed("price") {
		pricePath = plotPricePath
	}
	if changed("days") {
		cfg.Plot.Days = plotDays
	}
	if changed("seed") {
		cfg.Plot.Seed = plotSeed
	}
	if changed("xlsx") {
		cfg.Plot.XLSXPath = plotXLSXPath
	}
	if changed("pdf") {
		cfg.Plot.PDFPath = plotPDFPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Plot.XLSXPath == "" && cfg.Plot.PDFPath == "" {
		return fmt.Errorf("no report output: set --xlsx or --pdf")
	}

	pv, err := output.ReadCSVFile(pvPath)
	if err != nil {
		return fmt.Errorf("failed to load PV series: %w", err)
	}
	price, err := output.ReadCSVFile(pricePath)
	if err != nil {
		return fmt.Errorf("failed to load price series: %w", err)
	}
	app.entry("plot").Debugf("Loaded %d PV and %d price points", pv.Len(), price.Len())

	return renderReport(pv, price)
}
