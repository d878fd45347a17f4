// Package format turns raw engine numbers into display strings.
package format

import (
	"math"

	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	rounded := mathutil.Round(amount)
	if rounded < 0 {
		return "-$" + printer.Sprintf("%.2f", math.Abs(rounded))
	}
	return "$" + printer.Sprintf("%.2f", math.Abs(rounded))
}

// Percent renders an annual rate such as 12 as "12.00%".
func Percent(ratePercent float64) string {
	return printer.Sprintf("%.2f", ratePercent) + "%"
}
