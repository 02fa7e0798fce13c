package finance

import (
	"fmt"

	"github.com/iwvelando/scenario-engine/pkg/mathutil"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// SensitivityInput is the base case plus the grid axes. Empty axes fall back
// to the engine's configured defaults.
type SensitivityInput struct {
	BaseDiscountRate    float64   `json:"baseDiscountRate"`
	BaseCashflows       []float64 `json:"baseCashflows"`
	InitialInvestment   float64   `json:"initialInvestment"`
	RateOffsets         []float64 `json:"rateOffsets,omitempty"`
	CashflowMultipliers []float64 `json:"cashflowMultipliers,omitempty"`
}

// SensitivityResult holds Grid[i][j], the NPV with the discount rate shifted
// by RateOffsets[i] and every cash flow scaled by CashflowMultipliers[j].
type SensitivityResult struct {
	BaseNPV             float64     `json:"baseNpv"`
	RateOffsets         []float64   `json:"rateOffsets"`
	CashflowMultipliers []float64   `json:"cashflowMultipliers"`
	Grid                [][]Outcome `json:"grid"`
}

// Sensitivity computes a grid with the default settings.
func Sensitivity(in SensitivityInput) (SensitivityResult, error) {
	return defaultEngine.Sensitivity(in)
}

// Sensitivity recomputes NPV across the Cartesian product of rate offsets and
// cash-flow multipliers. A cell whose shifted rate leaves [0, 1] is undefined
// rather than failing the grid, as is one whose scaled cash flows overflow.
// The zero-offset, 1.0x cell equals BaseNPV
// exactly because both go through the same arithmetic.
func (e *Engine) Sensitivity(in SensitivityInput) (SensitivityResult, error) {
	if err := validation.DiscountRate("baseDiscountRate", in.BaseDiscountRate); err != nil {
		return SensitivityResult{}, err
	}
	if err := validation.Series("baseCashflows", in.BaseCashflows); err != nil {
		return SensitivityResult{}, err
	}
	if err := validation.NonNegative("initialInvestment", in.InitialInvestment); err != nil {
		return SensitivityResult{}, err
	}

	offsets := in.RateOffsets
	if len(offsets) == 0 {
		offsets = e.settings.Sensitivity.RateOffsets
	}
	multipliers := in.CashflowMultipliers
	if len(multipliers) == 0 {
		multipliers = e.settings.Sensitivity.CashflowMultipliers
	}
	if err := validateAxes(offsets, multipliers, "rateOffsets", "cashflowMultipliers"); err != nil {
		return SensitivityResult{}, err
	}

	baseNPV, err := NPV(in.BaseDiscountRate, in.InitialInvestment, in.BaseCashflows)
	if err != nil {
		return SensitivityResult{}, err
	}
	if !mathutil.IsFinite(baseNPV) {
		return SensitivityResult{}, validation.Invalid("baseCashflows", "overflow when discounted")
	}

	scaled := make([][]float64, len(multipliers))
	for j, m := range multipliers {
		scaled[j] = mathutil.Scale(in.BaseCashflows, m)
	}

	grid := make([][]Outcome, len(offsets))
	for i, offset := range offsets {
		rate := in.BaseDiscountRate + offset
		row := make([]Outcome, len(multipliers))
		for j := range multipliers {
			if validation.DiscountRate("rate", rate) != nil {
				row[j] = Undefined(ReasonRateOutOfRange)
				continue
			}
			npv, err := NPV(rate, in.InitialInvestment, scaled[j])
			if err != nil || !mathutil.IsFinite(npv) {
				row[j] = Undefined(ReasonNonFinite)
				continue
			}
			row[j] = Defined(npv)
		}
		grid[i] = row
	}

	return SensitivityResult{
		BaseNPV:             baseNPV,
		RateOffsets:         append([]float64(nil), offsets...),
		CashflowMultipliers: append([]float64(nil), multipliers...),
		Grid:                grid,
	}, nil
}

func validateAxes(offsets, multipliers []float64, offsetsField, multipliersField string) error {
	for i, o := range offsets {
		if err := validation.Finite(fmt.Sprintf("%s[%d]", offsetsField, i), o); err != nil {
			return err
		}
	}
	for i, m := range multipliers {
		if err := validation.NonNegative(fmt.Sprintf("%s[%d]", multipliersField, i), m); err != nil {
			return err
		}
	}
	return nil
}
