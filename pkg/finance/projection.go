package finance

import (
	"math"

	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/mathutil"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// IncomeAssumptions describes the first-year gross income and how it evolves.
type IncomeAssumptions struct {
	Base        float64 `yaml:"base" json:"base"`
	GrowthRate  float64 `yaml:"growthRate" json:"growthRate"`
	VacancyRate float64 `yaml:"vacancyRate" json:"vacancyRate"`
}

// ExpenseAssumptions describes the first-year operating expenses and how they evolve.
type ExpenseAssumptions struct {
	Base       float64 `yaml:"base" json:"base"`
	GrowthRate float64 `yaml:"growthRate" json:"growthRate"`
}

// ProjectionInput is everything Project needs.
type ProjectionInput struct {
	Years             int                `json:"years"`
	DiscountRate      float64            `json:"discountRate"`
	InitialInvestment float64            `json:"initialInvestment"`
	Income            IncomeAssumptions  `json:"income"`
	Expenses          ExpenseAssumptions `json:"expenses"`
	Escalation        string             `json:"escalation,omitempty"`
}

// ProjectionRow is the breakdown for a single year.
type ProjectionRow struct {
	Year       int     `json:"year"`
	Income     float64 `json:"income"`
	Expenses   float64 `json:"expenses"`
	Net        float64 `json:"net"`
	Discounted float64 `json:"discounted"`
	Cumulative float64 `json:"cumulative"`
}

// Projection is the projected net cash-flow series and its NPV.
type Projection struct {
	Escalation string          `json:"escalation"`
	Series     []float64       `json:"series"`
	NPV        float64         `json:"npv"`
	Rows       []ProjectionRow `json:"rows"`
}

// Project builds a projection with the default settings.
func Project(in ProjectionInput) (Projection, error) {
	return defaultEngine.Project(in)
}

// Project escalates income and expenses year by year and returns the net
// series together with its NPV at the same discount rate. Year 1 uses the
// base figures; later years apply the escalation policy (the engine default
// when the input leaves it empty) uniformly to both income and expenses.
func (e *Engine) Project(in ProjectionInput) (Projection, error) {
	if err := validateProjectionInput(in); err != nil {
		return Projection{}, err
	}

	policy := in.Escalation
	if policy == "" {
		policy = e.settings.Escalation
	}

	series := make([]float64, in.Years)
	rows := make([]ProjectionRow, in.Years)
	factor := 1.0
	cumulative := -in.InitialInvestment
	for i := 0; i < in.Years; i++ {
		year := i + 1
		income := escalate(in.Income.Base, in.Income.GrowthRate, year, policy) * (1 - in.Income.VacancyRate)
		if !mathutil.IsFinite(income) {
			return Projection{}, validation.Invalid("income.base", "overflows by year %d", year)
		}
		expenses := escalate(in.Expenses.Base, in.Expenses.GrowthRate, year, policy)
		if !mathutil.IsFinite(expenses) {
			return Projection{}, validation.Invalid("expenses.base", "overflows by year %d", year)
		}
		net := income - expenses

		factor *= 1 + in.DiscountRate
		cumulative += net

		series[i] = net
		rows[i] = ProjectionRow{
			Year:       year,
			Income:     income,
			Expenses:   expenses,
			Net:        net,
			Discounted: net / factor,
			Cumulative: cumulative,
		}
	}

	npv, err := NPV(in.DiscountRate, in.InitialInvestment, series)
	if err != nil {
		return Projection{}, err
	}
	if !mathutil.IsFinite(npv) {
		return Projection{}, validation.Invalid("income.base", "overflows the projected NPV")
	}

	return Projection{Escalation: policy, Series: series, NPV: npv, Rows: rows}, nil
}

// escalate returns the figure for year t (1-based). Flat escalation adds
// g*base each year and never drops below zero.
func escalate(base, growth float64, year int, policy string) float64 {
	periods := float64(year - 1)
	switch policy {
	case constants.EscalationFlat:
		return math.Max(0, base*(1+growth*periods))
	default:
		return base * math.Pow(1+growth, periods)
	}
}

func validateProjectionInput(in ProjectionInput) error {
	if err := validation.Years("years", in.Years); err != nil {
		return err
	}
	if err := validation.DiscountRate("discountRate", in.DiscountRate); err != nil {
		return err
	}
	if err := validation.NonNegative("initialInvestment", in.InitialInvestment); err != nil {
		return err
	}
	if err := validation.NonNegative("income.base", in.Income.Base); err != nil {
		return err
	}
	if err := validation.GrowthRate("income.growthRate", in.Income.GrowthRate); err != nil {
		return err
	}
	if err := validation.Fraction("income.vacancyRate", in.Income.VacancyRate); err != nil {
		return err
	}
	if err := validation.NonNegative("expenses.base", in.Expenses.Base); err != nil {
		return err
	}
	if err := validation.GrowthRate("expenses.growthRate", in.Expenses.GrowthRate); err != nil {
		return err
	}
	return validation.Escalation("escalation", in.Escalation)
}
