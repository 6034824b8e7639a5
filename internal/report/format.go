package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/joseph-ayodele/finpro/internal/metrics"
)

// NotFound is shown in place of an absent value.
const NotFound = "Not found"

// FormatValue renders v the way its metric kind is read: currency for amounts
// and per-share figures, a percent sign for percentages, two decimals for
// ratios.
func FormatValue(k metrics.Key, v *float64) string {
	if v == nil {
		return NotFound
	}
	switch k.Kind() {
	case metrics.KindAmount, metrics.KindPerShare:
		return money(*v)
	case metrics.KindPercent:
		return fmt.Sprintf("%.2f%%", *v)
	default:
		return fmt.Sprintf("%.2f", *v)
	}
}

// FormatDelta is FormatValue with an explicit sign.
func FormatDelta(k metrics.Key, v *float64) string {
	if v == nil {
		return "-"
	}
	s := FormatValue(k, v)
	if *v > 0 {
		return "+" + s
	}
	return s
}

// FormatPercentChange renders a relative change such as "+10.00%".
func FormatPercentChange(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

func money(v float64) string {
	s := "$" + humanize.FormatFloat("#,###.##", math.Abs(v))
	if v < 0 {
		return "-" + s
	}
	return s
}
