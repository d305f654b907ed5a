// =============================================================================
// Spot/PV Normalizer - PV Command
// =============================================================================
//
// This file defines the 'pv' command, which runs only the PV production
// pipeline.
//
// COMMAND USAGE:
//   normalizer pv [--pv-input FILE] [--pv-output FILE] [--cutoff TIME] [flags]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/normalizer"
)

var pvFlags pipelineFlags

// pvCmd represents the 'pv' command.
var pvCmd = &cobra.Command{
	Use:   "pv",
	Short: "Normalize the PV production export",
	Long: `The pv command reads a header-less PV export, converts W to kWh per
interval, fills whole days, applies the timezone shift, caps the series at
the cutoff and rescales it so the total energy matches the raw export.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pvFlags.apply(cmd, app.cfg); err != nil {
			return err
		}
		return runPipelines(normalizer.PipelinePV)
	},
}

func init() {
	rootCmd.AddCommand(pvCmd)

	pvFlags.addCommon(pvCmd)
	pvFlags.addPV(pvCmd)
}
