// =============================================================================
// Spot/PV Normalizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (normalizer)
//   ├── processCmd (normalizer process)
//   ├── priceCmd   (normalizer price)
//   ├── pvCmd      (normalizer pv)
//   ├── plotCmd    (normalizer plot)
//   └── versionCmd (normalizer version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads .env into the environment, if present
//   2. Loads the YAML configuration (defaults when the file is missing)
//   3. Configures logging and assigns a run ID
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/config"
	"github.com/ginjaninja78/spot-pv-normalizer/internal/logger"
	"github.com/ginjaninja78/spot-pv-normalizer/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// app holds what every subcommand needs. It is set by initApp.
var app *appContext

type appContext struct {
	cfg   *config.MainConfig
	log   *logger.Log
	runID string
}

// entry returns a log entry tagged with component and the run ID.
func (a *appContext) entry(component string) *logger.Entry {
	return a.log.WithComponent(component).WithFields(logger.Fields{"run_id": a.runID})
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "normalizer",
	Short: "Spot/PV Normalizer - Align spot prices and PV production on one time grid",
	Long: `Spot/PV Normalizer turns two raw exports into aligned fixed-interval
time series for energy-cost simulation:

  - Day-ahead spot prices (semicolon-delimited or XLSX, EUR/MWh)
    -> price_kWh in EUR/kWh
  - PV production estimates (header-less, W)
    -> kWh per interval, timezone corrected, capped at a cutoff and
       rescaled to the original energy total

Example Usage:
  normalizer process                       # Run both pipelines from config.yaml
  normalizer process --interval 60 --plot  # Hourly grid, then render a report
  normalizer pv --cutoff "2024-12-31 23:45:00"
  normalizer plot --days 5 --pdf report.pdf`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// initApp loads the environment, the configuration and the logger.
func initApp() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	log := logger.New()
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	// -v wins over both the config and LOG_LEVEL.
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	app = &appContext{cfg: cfg, log: log, runID: utils.NewRunID()}
	app.entry("cli").Debugf("Loaded configuration from %s", cfgFile)
	return nil
}
