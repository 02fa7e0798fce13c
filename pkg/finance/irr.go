package finance

import (
	"math"

	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// IRRResult carries the root rate (or why there is none) and how many
// bisection steps were spent finding it.
type IRRResult struct {
	Rate       Outcome `json:"rate"`
	Iterations int     `json:"iterations"`
}

// IRR finds the rate at which the NPV of [-initialInvestment, cashflows...]
// is zero, using the default settings.
func IRR(initialInvestment float64, cashflows []float64) (IRRResult, error) {
	return defaultEngine.IRR(initialInvestment, cashflows)
}

// IRR finds the rate r in the configured bracket where the full series has
// zero NPV. The search is plain bisection: it stops as soon as |NPV(mid)| is
// below the tolerance or the bracket can no longer be halved in float64, and
// gives up after MaxIterations. Series without both an outflow and an inflow,
// and brackets whose endpoints do not straddle zero, are undefined.
func (e *Engine) IRR(initialInvestment float64, cashflows []float64) (IRRResult, error) {
	if err := validation.NonNegative("initialInvestment", initialInvestment); err != nil {
		return IRRResult{}, err
	}
	if err := validation.Series("cashflows", cashflows); err != nil {
		return IRRResult{}, err
	}

	series := make([]float64, 0, len(cashflows)+1)
	series = append(series, -initialInvestment)
	series = append(series, cashflows...)

	hasOutflow, hasInflow := false, false
	for _, v := range series {
		if v < 0 {
			hasOutflow = true
		} else if v > 0 {
			hasInflow = true
		}
	}
	if !hasOutflow {
		return IRRResult{Rate: Undefined(ReasonNoOutflow)}, nil
	}
	if !hasInflow {
		return IRRResult{Rate: Undefined(ReasonNoInflow)}, nil
	}

	cfg := e.settings.IRR
	lower, upper := cfg.LowerBound, cfg.UpperBound
	npvLower := seriesNPV(lower, series)
	npvUpper := seriesNPV(upper, series)

	if npvLower == 0 {
		return IRRResult{Rate: Defined(lower)}, nil
	}
	if npvUpper == 0 {
		return IRRResult{Rate: Defined(upper)}, nil
	}
	if math.IsNaN(npvLower) || math.IsNaN(npvUpper) || (npvLower < 0) == (npvUpper < 0) {
		return IRRResult{Rate: Undefined(ReasonNoSignChange)}, nil
	}

	for i := 1; i <= cfg.MaxIterations; i++ {
		mid := lower + (upper-lower)/2
		npvMid := seriesNPV(mid, series)
		if math.Abs(npvMid) < cfg.Tolerance || mid == lower || mid == upper {
			return IRRResult{Rate: Defined(mid), Iterations: i}, nil
		}
		if (npvMid < 0) == (npvLower < 0) {
			lower, npvLower = mid, npvMid
		} else {
			upper = mid
		}
	}

	return IRRResult{Rate: Undefined(ReasonNotConverged), Iterations: cfg.MaxIterations}, nil
}
