// Package finance implements the financial scenario engine: NPV, IRR,
// multi-year cash-flow projection, rehabilitation payback and ROI, a
// sensitivity grid and a handful of property ratios.
//
// Every function is a pure computation over its arguments. Invalid input is
// reported as a *validation.InputError before any arithmetic happens; results
// that have no meaningful numeric answer are reported as an undefined Outcome
// rather than as an error, a zero or NaN.
package finance

import "encoding/json"

// Reasons attached to undefined outcomes.
const (
	ReasonNoOutflow       = "no-outflow"
	ReasonNoInflow        = "no-inflow"
	ReasonNoSignChange    = "no-sign-change"
	ReasonNotConverged    = "not-converged"
	ReasonNotRecoverable  = "not-recoverable"
	ReasonZeroCost        = "zero-cost"
	ReasonZeroDenominator = "zero-denominator"
	ReasonRateOutOfRange  = "rate-out-of-range"
	ReasonNonFinite       = "non-finite"
)

// Outcome is either a computed value or an explicit marker that no
// mathematically meaningful value exists.
type Outcome struct {
	Value   float64
	Defined bool
	Reason  string
}

// Defined wraps a computed value.
func Defined(value float64) Outcome {
	return Outcome{Value: value, Defined: true}
}

// Undefined builds an outcome carrying only the reason.
func Undefined(reason string) Outcome {
	return Outcome{Reason: reason}
}

type outcomeJSON struct {
	Value   *float64 `json:"value,omitempty"`
	Defined bool     `json:"defined"`
	Reason  string   `json:"reason,omitempty"`
}

// MarshalJSON emits {"value":x,"defined":true} or {"defined":false,"reason":r}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Defined {
		v := o.Value
		return json.Marshal(outcomeJSON{Value: &v, Defined: true})
	}
	return json.Marshal(outcomeJSON{Reason: o.Reason})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw outcomeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = Outcome{Defined: raw.Defined, Reason: raw.Reason}
	if raw.Defined && raw.Value != nil {
		o.Value = *raw.Value
	}
	return nil
}
