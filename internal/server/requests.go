package server

import (
	"github.com/iwvelando/scenario-engine/internal/scenario"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// request is a decoded JSON body that can tell an omitted number from a zero.
// The pointer fields shadow the embedded input's fields of the same JSON name.
type request[T any] interface {
	input() (T, error)
}

type npvBody struct {
	scenario.NPVRequest
	DiscountRate      *float64 `json:"discountRate"`
	InitialInvestment *float64 `json:"initialInvestment"`
}

func (b npvBody) input() (scenario.NPVRequest, error) {
	req := b.NPVRequest
	if err := require(&req.DiscountRate, b.DiscountRate, "discountRate"); err != nil {
		return req, err
	}
	err := require(&req.InitialInvestment, b.InitialInvestment, "initialInvestment")
	return req, err
}

type irrBody struct {
	scenario.IRRRequest
	InitialInvestment *float64 `json:"initialInvestment"`
}

func (b irrBody) input() (scenario.IRRRequest, error) {
	req := b.IRRRequest
	err := require(&req.InitialInvestment, b.InitialInvestment, "initialInvestment")
	return req, err
}

type cashflowBody struct {
	finance.ProjectionInput
	DiscountRate *float64 `json:"discountRate"`
}

func (b cashflowBody) input() (finance.ProjectionInput, error) {
	in := b.ProjectionInput
	err := require(&in.DiscountRate, b.DiscountRate, "discountRate")
	return in, err
}

type rehabBody struct {
	finance.RehabInput
	RehabCost         *float64 `json:"rehabCost"`
	IncrementalIncome *float64 `json:"incrementalIncome"`
}

func (b rehabBody) input() (finance.RehabInput, error) {
	in := b.RehabInput
	if err := require(&in.RehabCost, b.RehabCost, "rehabCost"); err != nil {
		return in, err
	}
	err := require(&in.IncrementalIncome, b.IncrementalIncome, "incrementalIncome")
	return in, err
}

type sensitivityBody struct {
	finance.SensitivityInput
	BaseDiscountRate  *float64 `json:"baseDiscountRate"`
	InitialInvestment *float64 `json:"initialInvestment"`
}

func (b sensitivityBody) input() (finance.SensitivityInput, error) {
	in := b.SensitivityInput
	if err := require(&in.BaseDiscountRate, b.BaseDiscountRate, "baseDiscountRate"); err != nil {
		return in, err
	}
	err := require(&in.InitialInvestment, b.InitialInvestment, "initialInvestment")
	return in, err
}

type ratiosBody struct {
	finance.RatioInput
}

func (b ratiosBody) input() (finance.RatioInput, error) {
	return b.RatioInput, nil
}

func require(dst *float64, src *float64, field string) error {
	if src == nil {
		return validation.Invalid(field, "is required")
	}
	*dst = *src
	return nil
}
