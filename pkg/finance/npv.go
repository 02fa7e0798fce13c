package finance

import (
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// NPV returns -initialInvestment + Σ cashflows[t-1] / (1+discountRate)^t for
// t = 1..N. The discount rate must lie in [0, 1], the investment must be
// non-negative and the series non-empty and finite.
func NPV(discountRate, initialInvestment float64, cashflows []float64) (float64, error) {
	if err := validateNPVInput(discountRate, initialInvestment, cashflows); err != nil {
		return 0, err
	}
	return presentValue(discountRate, cashflows) - initialInvestment, nil
}

func validateNPVInput(discountRate, initialInvestment float64, cashflows []float64) error {
	if err := validation.DiscountRate("discountRate", discountRate); err != nil {
		return err
	}
	if err := validation.NonNegative("initialInvestment", initialInvestment); err != nil {
		return err
	}
	return validation.Series("cashflows", cashflows)
}

// presentValue discounts cashflows starting at period 1. The discount factor is
// accumulated by multiplication so a zero rate keeps it at exactly 1.
func presentValue(rate float64, cashflows []float64) float64 {
	growth := 1 + rate
	factor := 1.0
	pv := 0.0
	for _, cf := range cashflows {
		factor *= growth
		pv += cf / factor
	}
	return pv
}

// seriesNPV treats series[0] as the undiscounted period-0 flow.
func seriesNPV(rate float64, series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[0] + presentValue(rate, series[1:])
}
