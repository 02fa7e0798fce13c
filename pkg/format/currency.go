// Package format renders amounts, rates and outcomes for people to read.
package format

import (
	"math"

	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := printer().Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := printer().Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Percent renders a fraction as a percentage with two decimals (0.0825 -> "8.25%").
func Percent(fraction float64) string {
	return printer().Sprintf("%.2f%%", fraction*constants.PercentageMultiplier)
}

// Outcome renders a defined outcome with render and an undefined one as "n/a (reason)".
func Outcome(o finance.Outcome, render func(float64) string) string {
	if !o.Defined {
		return "n/a (" + o.Reason + ")"
	}
	return render(o.Value)
}
