package finance

import (
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// RatioInput holds the annual figures for a property.
type RatioInput struct {
	GrossIncome       float64 `json:"grossIncome"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	PropertyValue     float64 `json:"propertyValue"`
	EquityInvested    float64 `json:"equityInvested"`
	AnnualDebtService float64 `json:"annualDebtService"`
}

// Ratios are the standard real-estate ratios derived from a RatioInput.
type Ratios struct {
	NetOperatingIncome float64 `json:"netOperatingIncome"`
	CapRate            Outcome `json:"capRate"`
	GrossYield         Outcome `json:"grossYield"`
	CashOnCash         Outcome `json:"cashOnCash"`
	DSCR               Outcome `json:"dscr"`
}

// ComputeRatios derives NOI, cap rate, gross yield, cash-on-cash return and
// debt service coverage. Ratios whose denominator is not positive are undefined.
func ComputeRatios(in RatioInput) (Ratios, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"grossIncome", in.GrossIncome},
		{"operatingExpenses", in.OperatingExpenses},
		{"propertyValue", in.PropertyValue},
		{"equityInvested", in.EquityInvested},
		{"annualDebtService", in.AnnualDebtService},
	}
	for _, f := range fields {
		if err := validation.NonNegative(f.name, f.value); err != nil {
			return Ratios{}, err
		}
	}

	noi := in.GrossIncome - in.OperatingExpenses
	return Ratios{
		NetOperatingIncome: noi,
		CapRate:            ratio(noi, in.PropertyValue),
		GrossYield:         ratio(in.GrossIncome, in.PropertyValue),
		CashOnCash:         ratio(noi-in.AnnualDebtService, in.EquityInvested),
		DSCR:               ratio(noi, in.AnnualDebtService),
	}, nil
}

// CapRate is net operating income over property value.
func CapRate(noi, propertyValue float64) (Outcome, error) {
	if err := validation.Finite("netOperatingIncome", noi); err != nil {
		return Outcome{}, err
	}
	if err := validation.Finite("propertyValue", propertyValue); err != nil {
		return Outcome{}, err
	}
	return ratio(noi, propertyValue), nil
}

// GrossYield is gross income over property value.
func GrossYield(grossIncome, propertyValue float64) (Outcome, error) {
	if err := validation.Finite("grossIncome", grossIncome); err != nil {
		return Outcome{}, err
	}
	if err := validation.Finite("propertyValue", propertyValue); err != nil {
		return Outcome{}, err
	}
	return ratio(grossIncome, propertyValue), nil
}

// CashOnCash is the annual pre-tax cash flow over the equity invested.
func CashOnCash(annualCashFlow, equityInvested float64) (Outcome, error) {
	if err := validation.Finite("annualCashFlow", annualCashFlow); err != nil {
		return Outcome{}, err
	}
	if err := validation.Finite("equityInvested", equityInvested); err != nil {
		return Outcome{}, err
	}
	return ratio(annualCashFlow, equityInvested), nil
}

// DSCR is net operating income over annual debt service.
func DSCR(noi, annualDebtService float64) (Outcome, error) {
	if err := validation.Finite("netOperatingIncome", noi); err != nil {
		return Outcome{}, err
	}
	if err := validation.Finite("annualDebtService", annualDebtService); err != nil {
		return Outcome{}, err
	}
	return ratio(noi, annualDebtService), nil
}

func ratio(numerator, denominator float64) Outcome {
	if denominator <= 0 {
		return Undefined(ReasonZeroDenominator)
	}
	return Defined(numerator / denominator)
}
