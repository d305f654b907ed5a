package plotter

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ginjaninja78/spot-pv-normalizer/internal/timeseries"
	"github.com/ginjaninja78/spot-pv-normalizer/pkg/utils"
)

// DayLayout formats a day in sheet names, titles and logs.
const DayLayout = "2006-01-02"

// Options controls a plot run.
type Options struct {
	// Days is the maximum number of days to render.
	Days int

	// XLSXPath and PDFPath select the renderers. Empty disables one.
	XLSXPath string
	PDFPath  string
}

// Report describes what was rendered.
type Report struct {
	// CommonDays is the number of days covered by both series.
	CommonDays int

	// Days are the sampled days, ascending.
	Days []time.Time

	// Files are the written report files.
	Files []string
}

// Plot samples common days of pv and price and renders them.
//
// PARAMETERS:
//   - pv: The normalized PV series.
//   - price: The normalized price series.
//   - opts: Day count and output paths.
//   - rng: The random source used for sampling.
//
// RETURNS:
//   - A report of the selected days and written files. With no common day
//     nothing is rendered and the report is empty.
//   - An error if a renderer fails.
func Plot(pv, price *timeseries.Series, opts Options, rng *rand.Rand) (*Report, error) {
	common := CommonDays(pv, price)
	report := &Report{CommonDays: len(common)}

	report.Days = SelectDays(common, opts.Days, rng)
	if len(report.Days) == 0 {
		return report, nil
	}
	views := BuildViews(pv, price, report.Days)

	if opts.XLSXPath != "" {
		if err := utils.EnsureParentDir(opts.XLSXPath); err != nil {
			return report, err
		}
		if err := RenderXLSX(opts.XLSXPath, views); err != nil {
			return report, fmt.Errorf("failed to render workbook: %w", err)
		}
		report.Files = append(report.Files, opts.XLSXPath)
	}

	if opts.PDFPath != "" {
		if err := utils.EnsureParentDir(opts.PDFPath); err != nil {
			return report, err
		}
		if err := RenderPDF(opts.PDFPath, views); err != nil {
			return report, fmt.Errorf("failed to render PDF: %w", err)
		}
		report.Files = append(report.Files, opts.PDFPath)
	}

	return report, nil
}

// NewRand returns a random source for seed. Seed 0 means time based.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
