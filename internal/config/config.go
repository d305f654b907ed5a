// =============================================================================
// Spot/PV Normalizer - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
// Everything the pipelines need is described here; command line flags only
// override individual values after loading.
//
// CONFIGURATION FILE (config.yaml):
//   interval_minutes, write_csv, skip_existing, output_formats
//   price:    raw price export layout and output path
//   pv:       raw PV export layout, timezone shift, cutoff and output path
//   plot:     day comparison report
//   logging:  level, format and destination
//   metrics:  prometheus textfile destination
//
// A missing configuration file is not an error: the defaults describe the
// SMARD price export and the PVGIS hourly export the tool was built for.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default column layout of the SMARD day-ahead price export.
const (
	DefaultDateColumn     = "Datum von"
	DefaultPrimaryColumn  = "Deutschland/Luxemburg [€/MWh] Berechnete Auflösungen"
	DefaultFallbackColumn = "DE/AT/LU [€/MWh] Berechnete Auflösungen"
	DefaultExcludedColumn = "∅ Anrainer DE/LU [€/MWh] Berechnete Auflösungen"
)

// DefaultAllowedSubstrings are the region names that mark an informational
// price column worth keeping.
var DefaultAllowedSubstrings = []string{"Deutschland", "DE", "Luxemburg", "DE/AT/LU"}

// CutoffLayout is the layout of pv.cutoff and the --cutoff flag.
const CutoffLayout = "2006-01-02 15:04:05"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// IntervalMinutes is the grid step of both normalized series.
	// Default: 15
	IntervalMinutes int `yaml:"interval_minutes"`

	// WriteCSV controls whether normalized series are persisted.
	// Default: true
	WriteCSV *bool `yaml:"write_csv"`

	// SkipExisting reuses an output file that already exists instead of
	// regenerating it.
	SkipExisting bool `yaml:"skip_existing"`

	// OutputFormats lists the persisted formats. "csv" is always written when
	// WriteCSV is set; "parquet" adds a .parquet copy next to it.
	OutputFormats []string `yaml:"output_formats"`

	// ParquetCompression is one of "snappy", "gzip" or "none".
	// Default: "snappy"
	ParquetCompression string `yaml:"parquet_compression"`

	// SummaryDir receives a processing summary per run. Empty disables it.
	SummaryDir string `yaml:"summary_dir"`

	Price   PriceSettings   `yaml:"price"`
	PV      PVSettings      `yaml:"pv"`
	Plot    PlotSettings    `yaml:"plot"`
	Logging LoggingSettings `yaml:"logging"`
	Metrics MetricsSettings `yaml:"metrics"`
}

// =============================================================================
// PIPELINE SETTINGS
// =============================================================================

// PriceSettings describes the raw price export.
type PriceSettings struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`

	// Delimiter separates fields in the raw file.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// Sheet and HeaderRow locate the table when InputPath is a workbook.
	Sheet     string `yaml:"sheet"`
	HeaderRow int    `yaml:"header_row"`

	// DateColumn holds the interval start, formatted as DateLayout.
	DateColumn string `yaml:"date_column"`

	// DateLayout is a Go time layout.
	// Default: "02.01.2006 15:04"
	DateLayout string `yaml:"date_layout"`

	// PrimaryColumn is used when its value is non-zero; FallbackColumn
	// otherwise.
	PrimaryColumn  string `yaml:"primary_column"`
	FallbackColumn string `yaml:"fallback_column"`

	// AllowedSubstrings and ExcludedColumn select the informational columns
	// copied verbatim into the output.
	AllowedSubstrings []string `yaml:"allowed_substrings"`
	ExcludedColumn    string   `yaml:"excluded_column"`
}

// PVSettings describes the raw PV export.
type PVSettings struct {
	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`

	// DataPrefix marks data lines. Every other line is treated as metadata.
	// Default: "20"
	DataPrefix string `yaml:"data_prefix"`

	// FieldCount is the exact number of comma separated fields per data line.
	// Default: 9
	FieldCount int `yaml:"field_count"`

	// TimeLayout is the Go layout of the first field.
	// Default: "20060102:1504"
	TimeLayout string `yaml:"time_layout"`

	// TimezoneShift is added to every timestamp after the first reindex.
	// Default: "1h"
	TimezoneShift string `yaml:"timezone_shift"`

	// Cutoff is the last instant that may appear in the output.
	// Default: "2023-12-31 23:50:00"
	Cutoff string `yaml:"cutoff"`
}

// PlotSettings controls the day comparison report.
type PlotSettings struct {
	Enabled bool `yaml:"enabled"`

	// Days is the maximum number of common days to render.
	// Default: 3
	Days int `yaml:"days"`

	// Seed feeds the day sampler. 0 picks a time based seed.
	Seed int64 `yaml:"seed"`

	XLSXPath string `yaml:"xlsx_path"`
	PDFPath  string `yaml:"pdf_path"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "text" or "json".
	Format string `yaml:"format"`

	// Output is "stdout", "stderr" or a file path.
	Output string `yaml:"output"`

	// MaxAge enables rotation of file output, in days.
	MaxAge int `yaml:"max_age"`
}

// MetricsSettings configures the prometheus textfile export.
type MetricsSettings struct {
	// TextfilePath is written at the end of a run. Empty disables it.
	TextfilePath string `yaml:"textfile_path"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. An empty path or a
//     file that does not exist yields the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*MainConfig, error) {
	if configPath == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (*MainConfig, error) {
	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *MainConfig) {
	if cfg.IntervalMinutes == 0 {
		cfg.IntervalMinutes = 15
	}
	if cfg.WriteCSV == nil {
		enabled := true
		cfg.WriteCSV = &enabled
	}
	if len(cfg.OutputFormats) == 0 {
		cfg.OutputFormats = []string{"csv"}
	}
	if cfg.ParquetCompression == "" {
		cfg.ParquetCompression = "snappy"
	}

	// Price defaults.
	p := &cfg.Price
	if p.InputPath == "" {
		p.InputPath = "electricityPricesRawData.csv"
	}
	if p.OutputPath == "" {
		p.OutputPath = "price.csv"
	}
	if p.Delimiter == "" {
		p.Delimiter = ";"
	}
	if p.DateColumn == "" {
		p.DateColumn = DefaultDateColumn
	}
	if p.DateLayout == "" {
		p.DateLayout = "02.01.2006 15:04"
	}
	if p.PrimaryColumn == "" {
		p.PrimaryColumn = DefaultPrimaryColumn
	}
	if p.FallbackColumn == "" {
		p.FallbackColumn = DefaultFallbackColumn
	}
	if len(p.AllowedSubstrings) == 0 {
		p.AllowedSubstrings = append([]string(nil), DefaultAllowedSubstrings...)
	}
	if p.ExcludedColumn == "" {
		p.ExcludedColumn = DefaultExcludedColumn
	}

	// PV defaults.
	v := &cfg.PV
	if v.InputPath == "" {
		v.InputPath = "PVRawData.csv"
	}
	if v.OutputPath == "" {
		v.OutputPath = "PV.csv"
	}
	if v.DataPrefix == "" {
		v.DataPrefix = "20"
	}
	if v.FieldCount == 0 {
		v.FieldCount = 9
	}
	if v.TimeLayout == "" {
		v.TimeLayout = "20060102:1504"
	}
	if v.TimezoneShift == "" {
		v.TimezoneShift = "1h"
	}
	if v.Cutoff == "" {
		v.Cutoff = "2023-12-31 23:50:00"
	}

	// Plot defaults.
	if cfg.Plot.Days == 0 {
		cfg.Plot.Days = 3
	}
	if cfg.Plot.XLSXPath == "" {
		cfg.Plot.XLSXPath = "comparison.xlsx"
	}

	// Logging defaults.
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// Validate checks values that defaults cannot repair.
func (c *MainConfig) Validate() error {
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("interval_minutes must be positive, got %d", c.IntervalMinutes)
	}
	if c.Plot.Days < 0 {
		return fmt.Errorf("plot.days must not be negative, got %d", c.Plot.Days)
	}
	if len(c.Price.Delimiter) != 1 {
		return fmt.Errorf("price.delimiter must be a single character, got %q", c.Price.Delimiter)
	}
	if c.PV.FieldCount < 2 {
		return fmt.Errorf("pv.field_count must be at least 2, got %d", c.PV.FieldCount)
	}
	if _, err := c.PV.Shift(); err != nil {
		return err
	}
	if _, err := c.PV.CutoffTime(); err != nil {
		return err
	}
	for _, format := range c.OutputFormats {
		switch strings.ToLower(format) {
		case "csv", "parquet":
		default:
			return fmt.Errorf("unsupported output format %q", format)
		}
	}
	switch strings.ToLower(c.ParquetCompression) {
	case "snappy", "gzip", "none":
	default:
		return fmt.Errorf("unsupported parquet_compression %q", c.ParquetCompression)
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Interval returns the grid step.
func (c *MainConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Persist reports whether normalized series are written to disk.
func (c *MainConfig) Persist() bool {
	return c.WriteCSV == nil || *c.WriteCSV
}

// WantsFormat reports whether format is listed in OutputFormats.
func (c *MainConfig) WantsFormat(format string) bool {
	for _, f := range c.OutputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Shift parses TimezoneShift.
func (p PVSettings) Shift() (time.Duration, error) {
	d, err := time.ParseDuration(p.TimezoneShift)
	if err != nil {
		return 0, fmt.Errorf("invalid pv.timezone_shift %q: %w", p.TimezoneShift, err)
	}
	return d, nil
}

// CutoffTime parses Cutoff as a timezone-naive instant.
func (p PVSettings) CutoffTime() (time.Time, error) {
	t, err := time.ParseInLocation(CutoffLayout, p.Cutoff, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pv.cutoff %q: %w", p.Cutoff, err)
	}
	return t, nil
}
