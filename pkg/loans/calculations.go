// Package loans provides the amortizing-loan math behind debt service figures.
package loans

import (
	"math"

	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// YearSummary aggregates one year of monthly loan payments.
type YearSummary struct {
	Year               int     `json:"year"`
	Payments           float64 `json:"payments"`
	Interest           float64 `json:"interest"`
	Principal          float64 `json:"principal"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

func validateLoan(principal, annualRatePercent float64, termMonths int) error {
	if err := validation.NonNegative("loan.principal", principal); err != nil {
		return err
	}
	if err := validation.NonNegative("loan.rate", annualRatePercent); err != nil {
		return err
	}
	if termMonths < 1 {
		return validation.Invalid("loan.termMonths", "must be at least 1, got %d", termMonths)
	}
	return nil
}

// MonthlyPayment calculates the monthly payment for a loan using the standard
// amortization formula. The rate is an annual percentage, e.g. 4.5.
func MonthlyPayment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if err := validateLoan(principal, annualRatePercent, termMonths); err != nil {
		return 0, err
	}
	return monthlyPayment(principal, annualRatePercent, termMonths), nil
}

func monthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if annualRatePercent == 0 {
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// InterestPayment calculates the interest portion of one monthly payment.
func InterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return remainingPrincipal * annualRatePercent / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AnnualDebtService is twelve monthly payments on a fully running loan.
func AnnualDebtService(principal, annualRatePercent float64, termMonths int) (float64, error) {
	payment, err := MonthlyPayment(principal, annualRatePercent, termMonths)
	if err != nil {
		return 0, err
	}
	return payment * constants.MonthsPerYear, nil
}

// YearlySchedule amortizes the loan month by month and reports one summary per
// year. Years after the loan is paid off are reported with zero payments.
func YearlySchedule(principal, annualRatePercent float64, termMonths, years int) ([]YearSummary, error) {
	if err := validateLoan(principal, annualRatePercent, termMonths); err != nil {
		return nil, err
	}
	if err := validation.Years("years", years); err != nil {
		return nil, err
	}

	payment := monthlyPayment(principal, annualRatePercent, termMonths)
	balance := principal
	schedule := make([]YearSummary, years)
	month := 0

	for y := range schedule {
		summary := YearSummary{Year: y + 1}
		for m := 0; m < constants.MonthsPerYear; m++ {
			if month >= termMonths || balance <= 0 {
				break
			}
			month++

			interest := InterestPayment(balance, annualRatePercent)
			principalPart := payment - interest
			if month == termMonths || principalPart > balance {
				// Final payment clears any rounding residue.
				principalPart = balance
			}
			balance -= principalPart

			summary.Interest += interest
			summary.Principal += principalPart
			summary.Payments += interest + principalPart
		}
		summary.RemainingPrincipal = balance
		schedule[y] = summary
	}

	return schedule, nil
}
