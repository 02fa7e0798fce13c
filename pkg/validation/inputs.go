package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/mathutil"
)

// ErrInvalidInput is matched by every InputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports an out-of-range or missing parameter. It is raised before
// any calculation and is always fixable by the caller.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) succeed for any InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid builds an InputError for field with a formatted message.
func Invalid(field, format string, args ...interface{}) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DiscountRate requires a finite rate in [0, 1].
func DiscountRate(field string, rate float64) error {
	if !mathutil.IsFinite(rate) {
		return Invalid(field, "must be a finite number")
	}
	if rate < constants.MinDiscountRate || rate > constants.MaxDiscountRate {
		return Invalid(field, "must be between %g and %g, got %g",
			constants.MinDiscountRate, constants.MaxDiscountRate, rate)
	}
	return nil
}

// NonNegative requires a finite value >= 0.
func NonNegative(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return Invalid(field, "must be a finite number")
	}
	if value < 0 {
		return Invalid(field, "must not be negative, got %g", value)
	}
	return nil
}

// Finite requires value to be neither NaN nor infinite.
func Finite(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return Invalid(field, "must be a finite number")
	}
	return nil
}

// Fraction requires a finite value in [0, 1].
func Fraction(field string, value float64) error {
	if !mathutil.IsFinite(value) {
		return Invalid(field, "must be a finite number")
	}
	if value < 0 || value > 1 {
		return Invalid(field, "must be between 0 and 1, got %g", value)
	}
	return nil
}

// GrowthRate requires a finite rate strictly greater than -1.
func GrowthRate(field string, rate float64) error {
	if !mathutil.IsFinite(rate) {
		return Invalid(field, "must be a finite number")
	}
	if rate <= -1 {
		return Invalid(field, "must be greater than -1, got %g", rate)
	}
	return nil
}

// Series requires a non-empty sequence of finite values.
func Series(field string, values []float64) error {
	if len(values) == 0 {
		return Invalid(field, "must contain at least one value")
	}
	if idx := mathutil.FirstNonFinite(values); idx >= 0 {
		return Invalid(fmt.Sprintf("%s[%d]", field, idx), "must be a finite number")
	}
	return nil
}

// Years requires a horizon within the supported projection range.
func Years(field string, years int) error {
	if years < constants.MinProjectionYears || years > constants.MaxProjectionYears {
		return Invalid(field, "must be between %d and %d, got %d",
			constants.MinProjectionYears, constants.MaxProjectionYears, years)
	}
	return nil
}

// Escalation accepts an empty policy (engine default) or one of the known policies.
func Escalation(field, policy string) error {
	switch policy {
	case "", constants.EscalationCompound, constants.EscalationFlat:
		return nil
	default:
		return Invalid(field, "expected %s or %s, got %q",
			constants.EscalationCompound, constants.EscalationFlat, policy)
	}
}
