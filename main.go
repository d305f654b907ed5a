// =============================================================================
// Spot/PV Normalizer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Spot/PV Normalizer CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   normalizer process   - Normalize the price and PV exports
//   normalizer price     - Normalize the price export only
//   normalizer pv        - Normalize the PV export only
//   normalizer plot      - Render a day comparison of the normalized series
//   normalizer version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Parsing, normalization, output, plotting
//   - pkg/           : Shared file and summary utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/spot-pv-normalizer/cmd"
)

func main() {
	cmd.Execute()
}
