// =============================================================================
// Spot/PV Normalizer - Price Command
// =============================================================================
//
// This file defines the 'price' command, which runs only the spot price
// pipeline.
//
// COMMAND USAGE:
//   normalizer price [--price-input FILE] [--price-output FILE] [flags]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/normalizer"
)

var priceFlags pipelineFlags

// priceCmd represents the 'price' command.
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Normalize the spot price export",
	Long: `The price command reads a day-ahead price export (semicolon-delimited CSV
or XLSX), picks the primary price column with the fallback column for
rows where it is zero, converts EUR/MWh to EUR/kWh and writes the series
on the configured grid.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := priceFlags.apply(cmd, app.cfg); err != nil {
			return err
		}
		return runPipelines(normalizer.PipelinePrice)
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)

	priceFlags.addCommon(priceCmd)
	priceFlags.addPrice(priceCmd)
}
