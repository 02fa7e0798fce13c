package finance

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/iwvelando/scenario-engine/pkg/validation"
)

func TestIRRKnownRoots(t *testing.T) {
	tests := []struct {
		name      string
		initial   float64
		cashflows []float64
		expected  float64
		tolerance float64
	}{
		{"Single period ten percent", 100, []float64{110}, 0.10, 1e-6},
		{"Two periods ten percent", 1000, []float64{100, 1100}, 0.10, 1e-6},
		{"Break even", 1000, []float64{500, 500}, 0.0, 1e-6},
		{"Loss making", 1000, []float64{300, 300}, -0.2821, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := IRR(tt.initial, tt.cashflows)
			if err != nil {
				t.Fatalf("IRR() unexpected error: %v", err)
			}
			if !result.Rate.Defined {
				t.Fatalf("IRR() undefined (%s), expected %v", result.Rate.Reason, tt.expected)
			}
			if math.Abs(result.Rate.Value-tt.expected) > tt.tolerance {
				t.Errorf("IRR() = %v, expected %v", result.Rate.Value, tt.expected)
			}
			if result.Iterations <= 0 {
				t.Errorf("expected a positive iteration count, got %d", result.Iterations)
			}
		})
	}
}

func TestIRRZeroesNPVForConventionalSeries(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(30)
		cashflows := make([]float64, n)
		for j := range cashflows {
			cashflows[j] = 100 + rng.Float64()*5000
		}
		initial := 1000 + rng.Float64()*20000

		result, err := IRR(initial, cashflows)
		if err != nil {
			t.Fatalf("IRR() unexpected error: %v", err)
		}
		if !result.Rate.Defined {
			continue
		}

		series := append([]float64{-initial}, cashflows...)
		if npv := seriesNPV(result.Rate.Value, series); math.Abs(npv) >= 1e-6 {
			t.Fatalf("NPV at IRR %v = %v for initial %v and %v", result.Rate.Value, npv, initial, cashflows)
		}
	}
}

func TestIRRClassicExample(t *testing.T) {
	result, err := IRR(1000, []float64{500, 400, 300, 100})
	if err != nil {
		t.Fatalf("IRR() unexpected error: %v", err)
	}
	if !result.Rate.Defined {
		t.Fatalf("IRR() undefined: %s", result.Rate.Reason)
	}
	if result.Rate.Value < 0.14 || result.Rate.Value > 0.15 {
		t.Errorf("IRR() = %v, expected about 0.1449", result.Rate.Value)
	}

	again, _ := IRR(1000, []float64{500, 400, 300, 100})
	if again != result {
		t.Errorf("IRR() not deterministic: %+v vs %+v", result, again)
	}
}

func TestIRRUndefined(t *testing.T) {
	tests := []struct {
		name      string
		initial   float64
		cashflows []float64
		reason    string
	}{
		{"All non-negative", 0, []float64{100, 200}, ReasonNoOutflow},
		{"All zero", 0, []float64{0, 0}, ReasonNoOutflow},
		{"Never positive", 1000, []float64{-100, 0}, ReasonNoInflow},
		{"No root in bracket", 1000, []float64{5}, ReasonNoSignChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := IRR(tt.initial, tt.cashflows)
			if err != nil {
				t.Fatalf("IRR() unexpected error: %v", err)
			}
			if result.Rate.Defined {
				t.Fatalf("IRR() = %v, expected undefined", result.Rate.Value)
			}
			if result.Rate.Reason != tt.reason {
				t.Errorf("Reason = %q, expected %q", result.Rate.Reason, tt.reason)
			}
			if result.Rate.Value != 0 {
				t.Errorf("undefined outcome carried value %v", result.Rate.Value)
			}
		})
	}
}

func TestIRRNotConverged(t *testing.T) {
	settings := DefaultSettings()
	settings.IRR.MaxIterations = 1
	engine, err := NewEngine(settings)
	if err != nil {
		t.Fatalf("NewEngine() unexpected error: %v", err)
	}

	result, err := engine.IRR(1000, []float64{500, 400, 300, 100})
	if err != nil {
		t.Fatalf("IRR() unexpected error: %v", err)
	}
	if result.Rate.Defined || result.Rate.Reason != ReasonNotConverged {
		t.Errorf("expected not-converged, got %+v", result.Rate)
	}
	if result.Iterations != 1 {
		t.Errorf("Iterations = %d, expected 1", result.Iterations)
	}
}

func TestIRRRejectsInvalidInput(t *testing.T) {
	if _, err := IRR(-1, []float64{1}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for negative investment, got %v", err)
	}
	if _, err := IRR(100, nil); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for empty cashflows, got %v", err)
	}
	if _, err := IRR(100, []float64{math.NaN()}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for NaN cashflow, got %v", err)
	}
}
