package finance

import (
	"github.com/iwvelando/scenario-engine/pkg/mathutil"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// RehabInput describes a rehabilitation investment and the extra net income
// it is expected to produce each period.
type RehabInput struct {
	RehabCost         float64  `json:"rehabCost"`
	IncrementalIncome float64  `json:"incrementalIncome"`
	DiscountRate      *float64 `json:"discountRate,omitempty"`
	Horizon           int      `json:"horizon,omitempty"`
}

// RehabResult reports payback, ROI and (when a rate was supplied) NPV.
type RehabResult struct {
	Horizon       int      `json:"horizon"`
	PaybackPeriod Outcome  `json:"paybackPeriod"`
	AnnualROI     Outcome  `json:"annualRoi"`
	HorizonROI    Outcome  `json:"horizonRoi"`
	NPV           *float64 `json:"npv,omitempty"`
}

// SimulateRehab runs a rehab simulation with the default settings.
func SimulateRehab(in RehabInput) (RehabResult, error) {
	return defaultEngine.SimulateRehab(in)
}

// SimulateRehab computes the simple payback period (cost / income), the
// annual ROI (income / cost), the ROI over the horizon
// ((income*horizon - cost) / cost) and optionally the NPV of the investment.
// Non-positive income is never recovered; a zero cost has no ROI.
func (e *Engine) SimulateRehab(in RehabInput) (RehabResult, error) {
	if err := validation.NonNegative("rehabCost", in.RehabCost); err != nil {
		return RehabResult{}, err
	}
	if err := validation.Finite("incrementalIncome", in.IncrementalIncome); err != nil {
		return RehabResult{}, err
	}
	if in.DiscountRate != nil {
		if err := validation.DiscountRate("discountRate", *in.DiscountRate); err != nil {
			return RehabResult{}, err
		}
	}

	horizon := in.Horizon
	if horizon == 0 {
		horizon = e.settings.RehabHorizon
	}
	if err := validation.Years("horizon", horizon); err != nil {
		return RehabResult{}, err
	}

	result := RehabResult{Horizon: horizon}

	if in.IncrementalIncome > 0 {
		result.PaybackPeriod = finiteOutcome(in.RehabCost / in.IncrementalIncome)
	} else {
		result.PaybackPeriod = Undefined(ReasonNotRecoverable)
	}

	if in.RehabCost > 0 {
		result.AnnualROI = finiteOutcome(in.IncrementalIncome / in.RehabCost)
		result.HorizonROI = finiteOutcome((in.IncrementalIncome*float64(horizon) - in.RehabCost) / in.RehabCost)
	} else {
		result.AnnualROI = Undefined(ReasonZeroCost)
		result.HorizonROI = Undefined(ReasonZeroCost)
	}

	if in.DiscountRate != nil {
		npv, err := NPV(*in.DiscountRate, in.RehabCost, mathutil.Repeat(in.IncrementalIncome, horizon))
		if err != nil {
			return RehabResult{}, err
		}
		if !mathutil.IsFinite(npv) {
			return RehabResult{}, validation.Invalid("incrementalIncome", "overflows the %d-period NPV", horizon)
		}
		result.NPV = &npv
	}

	return result, nil
}

// finiteOutcome marks a ratio that overflowed as undefined.
func finiteOutcome(v float64) Outcome {
	if !mathutil.IsFinite(v) {
		return Undefined(ReasonNonFinite)
	}
	return Defined(v)
}
