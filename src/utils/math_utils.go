package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds a float64 to 2 decimal places using decimal arithmetic, so
// values like 0.005 round half-up rather than drifting on binary floats.
func Round2(val float64) float64 {
	return decimal.NewFromFloat(val).Round(2).InexactFloat64()
}

// CleanMoney makes a derived monetary value safe for output: NaN and
// ±infinity collapse to 0, everything else is rounded to 2 decimals.
func CleanMoney(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return Round2(val)
}

// ParseFloatOrZero coerces a free-form numeric cell to a float64.
// Unparseable input yields 0, never an error.
func ParseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Spreadsheet extracts often carry thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
