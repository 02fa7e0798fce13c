package finance

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/scenario-engine/pkg/mathutil"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

func TestComputeRatios(t *testing.T) {
	ratios, err := ComputeRatios(RatioInput{
		GrossIncome:       120000,
		OperatingExpenses: 40000,
		PropertyValue:     1000000,
		EquityInvested:    250000,
		AnnualDebtService: 50000,
	})
	if err != nil {
		t.Fatalf("ComputeRatios() unexpected error: %v", err)
	}

	if ratios.NetOperatingIncome != 80000 {
		t.Errorf("NetOperatingIncome = %v, expected 80000", ratios.NetOperatingIncome)
	}

	tests := []struct {
		name     string
		outcome  Outcome
		expected float64
	}{
		{"Cap rate", ratios.CapRate, 0.08},
		{"Gross yield", ratios.GrossYield, 0.12},
		{"Cash on cash", ratios.CashOnCash, 0.12},
		{"DSCR", ratios.DSCR, 1.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.outcome.Defined || !mathutil.WithinTolerance(tt.outcome.Value, tt.expected, 1e-12) {
				t.Errorf("%s = %+v, expected %v", tt.name, tt.outcome, tt.expected)
			}
		})
	}
}

func TestComputeRatiosZeroDenominators(t *testing.T) {
	ratios, err := ComputeRatios(RatioInput{GrossIncome: 1000})
	if err != nil {
		t.Fatalf("ComputeRatios() unexpected error: %v", err)
	}
	for name, outcome := range map[string]Outcome{
		"capRate":    ratios.CapRate,
		"grossYield": ratios.GrossYield,
		"cashOnCash": ratios.CashOnCash,
		"dscr":       ratios.DSCR,
	} {
		if outcome.Defined || outcome.Reason != ReasonZeroDenominator {
			t.Errorf("%s = %+v, expected zero-denominator", name, outcome)
		}
	}
}

func TestRatioHelpers(t *testing.T) {
	capRate, err := CapRate(50000, 625000)
	if err != nil || !mathutil.WithinTolerance(capRate.Value, 0.08, 1e-12) {
		t.Errorf("CapRate() = %+v, %v; expected 0.08", capRate, err)
	}

	dscr, err := DSCR(-1000, 5000)
	if err != nil || !mathutil.WithinTolerance(dscr.Value, -0.2, 1e-12) {
		t.Errorf("DSCR() = %+v, %v; expected -0.2", dscr, err)
	}

	yield, err := GrossYield(90000, 1000000)
	if err != nil || !mathutil.WithinTolerance(yield.Value, 0.09, 1e-12) {
		t.Errorf("GrossYield() = %+v, %v; expected 0.09", yield, err)
	}

	coc, err := CashOnCash(15000, 0)
	if err != nil || coc.Defined || coc.Reason != ReasonZeroDenominator {
		t.Errorf("CashOnCash() with no equity = %+v, %v; expected zero-denominator", coc, err)
	}

	if _, err := DSCR(math.NaN(), 1); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for NaN NOI, got %v", err)
	}
	if _, err := ComputeRatios(RatioInput{PropertyValue: -1}); !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected InvalidInput for negative property value, got %v", err)
	}
}

func TestOutcomeJSON(t *testing.T) {
	defined, err := json.Marshal(Defined(5))
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if string(defined) != `{"value":5,"defined":true}` {
		t.Errorf("defined JSON = %s", defined)
	}

	zero, _ := json.Marshal(Defined(0))
	if !strings.Contains(string(zero), `"value":0`) {
		t.Errorf("a defined zero must keep its value, got %s", zero)
	}

	undefined, _ := json.Marshal(Undefined(ReasonNotRecoverable))
	if string(undefined) != `{"defined":false,"reason":"not-recoverable"}` {
		t.Errorf("undefined JSON = %s", undefined)
	}

	var decoded Outcome
	if err := json.Unmarshal(defined, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if decoded != Defined(5) {
		t.Errorf("decoded = %+v, expected Defined(5)", decoded)
	}
}

func TestNewEngineRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"Lower bound at minus one", func(s *Settings) { s.IRR.LowerBound = -1 }},
		{"Inverted bracket", func(s *Settings) { s.IRR.LowerBound, s.IRR.UpperBound = 1, 0.5 }},
		{"Negative tolerance", func(s *Settings) { s.IRR.Tolerance = -1 }},
		{"Unknown escalation", func(s *Settings) { s.Escalation = "step" }},
		{"Horizon too long", func(s *Settings) { s.RehabHorizon = 40 }},
		{"Negative multiplier", func(s *Settings) { s.Sensitivity.CashflowMultipliers = []float64{-0.5} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)
			if _, err := NewEngine(settings); !errors.Is(err, validation.ErrInvalidInput) {
				t.Errorf("NewEngine() error = %v, expected InvalidInput", err)
			}
		})
	}

	engine, err := NewEngine(Settings{})
	if err != nil {
		t.Fatalf("NewEngine() with zero settings should fall back to defaults: %v", err)
	}
	if engine.Settings().IRR.MaxIterations != 1000 {
		t.Errorf("expected default max iterations, got %d", engine.Settings().IRR.MaxIterations)
	}
}
