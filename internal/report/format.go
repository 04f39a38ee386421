package report

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundCents rounds v half away from zero to two decimal places.
func RoundCents(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Money formats v in Brazilian reais, e.g. R$ 1.234,56.
func Money(v float64) string {
	cents := RoundCents(v)
	s := humanize.FormatFloat("#.###,##", cents.InexactFloat64())
	if strings.HasPrefix(s, "-") {
		return "-R$ " + s[1:]
	}
	return "R$ " + s
}

// Percent formats an already-scaled percentage, e.g. 62,50%.
func Percent(v float64) string {
	return humanize.FormatFloat("#.###,##", RoundCents(v).InexactFloat64()) + "%"
}

// Quantity formats v without decimals when it is whole, else with two.
func Quantity(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return humanize.FormatFloat("#.###.", v)
	}
	return humanize.FormatFloat("#.###,##", RoundCents(v).InexactFloat64())
}
