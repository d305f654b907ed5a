// =============================================================================
// Spot/PV Normalizer - Value Parsing
// =============================================================================
//
// Raw exports format numbers for humans, not machines. This file turns the
// raw field strings into numbers and timestamps:
//   - Locale numbers: "5,0" and "5.0" are the same value, "-" means zero
//   - Unit conversion: MWh -> kWh and W -> kW are both a division by 1000
//   - Timestamps: parsed with a Go layout into a timezone-naive time.Time
//
// Decimal arithmetic is used for the conversion so that "5,0" / 1000 yields
// the float64 closest to 0.005 rather than an accumulated binary error.
//
// =============================================================================

package normalizer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// missingValue is the placeholder the price export uses for "no value".
const missingValue = "-"

var thousand = decimal.NewFromInt(1000)

// ParseLocaleNumber parses a number that may use a decimal comma. The dash
// placeholder parses as zero. An empty field is an error.
func ParseLocaleNumber(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == missingValue {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.Replace(value, ",", ".", 1))
}

// PerThousand divides by 1000 and returns the closest float64.
func PerThousand(d decimal.Decimal) float64 {
	return d.Div(thousand).InexactFloat64()
}

// ParseTimestamp parses a timestamp field as a timezone-naive instant.
func ParseTimestamp(raw, layout string) (time.Time, error) {
	return time.ParseInLocation(layout, strings.TrimSpace(raw), time.UTC)
}
