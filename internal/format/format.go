// Package format renders engine values the way the calculator displays them.
package format

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Percent renders a fraction as a percentage with two decimals, 0.3 -> "30.00%".
func Percent(v float64) string { return fixed2(finite(v)*100) + "%" }

// PercentValue renders a value that is already a percentage, 30 -> "30.00%".
func PercentValue(v float64) string { return fixed2(v) + "%" }

// Money renders dollars with two decimals. The sign follows the dollar symbol.
func Money(v float64) string { return "$" + fixed2(v) }

// Units renders a count rounded half-up to an integer.
func Units(v float64) string {
	return strconv.FormatFloat(math.Floor(finite(v)+0.5), 'f', 0, 64)
}

// fixed2 rounds the exact binary value of v half away from zero, so 1.005
// (stored as 1.00499...) renders as "1.00". 1074 digits cover every
// fractional bit a float64 can carry.
func fixed2(v float64) string {
	exact := strconv.FormatFloat(finite(v), 'f', 1074, 64)
	return decimal.RequireFromString(exact).StringFixed(2)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
