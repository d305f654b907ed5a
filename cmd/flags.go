package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
)

// pipelineFlags are the command line overrides of the pipeline settings.
// Only flags the user actually set replace configuration values.
type pipelineFlags struct {
	priceInput   string
	priceOutput  string
	pvInput      string
	pvOutput     string
	cutoff       string
	interval     int
	noWrite      bool
	skipExisting bool
	plot         bool
	days         int
	seed         int64
}

func (f *pipelineFlags) addCommon(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.interval, "interval", 15, "Grid interval in minutes")
	cmd.Flags().BoolVar(&f.noWrite, "no-write", false, "Normalize without writing output files")
	cmd.Flags().BoolVar(&f.skipExisting, "skip-existing", false, "Reuse output files that already exist")
}

func (f *pipelineFlags) addPrice(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.priceInput, "price-input", "", "Raw price export (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.priceOutput, "price-output", "", "Normalized price CSV")
}

func (f *pipelineFlags) addPV(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pvInput, "pv-input", "", "Raw PV export")
	cmd.Flags().StringVar(&f.pvOutput, "pv-output", "", "Normalized PV CSV")
	cmd.Flags().StringVar(&f.cutoff, "cutoff", "", `Last PV timestamp, "YYYY-MM-DD HH:MM:SS"`)
}

func (f *pipelineFlags) addPlot(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.plot, "plot", false, "Render the day comparison report afterwards")
	cmd.Flags().IntVar(&f.days, "days", 3, "Number of days to plot")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed for the day sampler (0 = random)")
}

// apply copies the flags that were set on cmd into cfg and validates the
// result.
func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.MainConfig) error {
	changed := cmd.Flags().Changed

	if changed("price-input") {
		cfg.Price.InputPath = f.priceInput
	}
	if changed("price-output") {
		cfg.Price.OutputPath = f.priceOutput
	}
	if changed("pv-input") {
		cfg.PV.InputPath = f.pvInput
	}
	if changed("pv-output") {
		cfg.PV.OutputPath = f.pvOutput
	}
	if changed("cutoff") {
		cfg.PV.Cutoff = f.cutoff
	}
	if changed("interval") {
		cfg.IntervalMinutes = f.interval
	}
	if changed("no-write") && f.noWrite {
		disabled := false
		cfg.WriteCSV = &disabled
	}
	if changed("skip-existing") {
		cfg.SkipExisting = f.skipExisting
	}
	if changed("plot") {
		cfg.Plot.Enabled = f.plot
	}
	if changed("days") {
		cfg.Plot.Days = f.days
	}
	if changed("seed") {
		cfg.Plot.Seed = f.seed
	}

	return cfg.Validate()
}
