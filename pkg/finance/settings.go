package finance

import (
	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/validation"
)

// IRRSettings bounds the bisection search used by IRR.
type IRRSettings struct {
	LowerBound    float64 `yaml:"lowerBound" json:"lowerBound"`
	UpperBound    float64 `yaml:"upperBound" json:"upperBound"`
	Tolerance     float64 `yaml:"tolerance" json:"tolerance"`
	MaxIterations int     `yaml:"maxIterations" json:"maxIterations"`
}

// SensitivitySettings holds the default grid axes.
type SensitivitySettings struct {
	RateOffsets         []float64 `yaml:"rateOffsets" json:"rateOffsets"`
	CashflowMultipliers []float64 `yaml:"cashflowMultipliers" json:"cashflowMultipliers"`
}

// Settings configures an Engine.
type Settings struct {
	IRR          IRRSettings         `yaml:"irr" json:"irr"`
	Sensitivity  SensitivitySettings `yaml:"sensitivity" json:"sensitivity"`
	Escalation   string              `yaml:"escalation" json:"escalation"`
	RehabHorizon int                 `yaml:"rehabHorizon" json:"rehabHorizon"`
}

// DefaultSettings returns the documented engine defaults: bisection over
// [-0.99, 10] with |NPV| < 1e-6 and at most 1000 iterations, rate offsets of
// ±1% and ±2%, multipliers 0.9/1.0/1.1, compounding escalation and a ten year
// rehab horizon.
func DefaultSettings() Settings {
	return Settings{
		IRR: IRRSettings{
			LowerBound:    constants.IRRLowerBound,
			UpperBound:    constants.IRRUpperBound,
			Tolerance:     constants.IRRTolerance,
			MaxIterations: constants.IRRMaxIterations,
		},
		Sensitivity: SensitivitySettings{
			RateOffsets:         []float64{-0.02, -0.01, 0, 0.01, 0.02},
			CashflowMultipliers: []float64{0.9, 1.0, 1.1},
		},
		Escalation:   constants.EscalationCompound,
		RehabHorizon: constants.DefaultRehabHorizonYears,
	}
}

// WithDefaults fills zero-valued fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.IRR.LowerBound == 0 && s.IRR.UpperBound == 0 {
		s.IRR.LowerBound = def.IRR.LowerBound
		s.IRR.UpperBound = def.IRR.UpperBound
	}
	if s.IRR.Tolerance == 0 {
		s.IRR.Tolerance = def.IRR.Tolerance
	}
	if s.IRR.MaxIterations == 0 {
		s.IRR.MaxIterations = def.IRR.MaxIterations
	}
	if len(s.Sensitivity.RateOffsets) == 0 {
		s.Sensitivity.RateOffsets = def.Sensitivity.RateOffsets
	}
	if len(s.Sensitivity.CashflowMultipliers) == 0 {
		s.Sensitivity.CashflowMultipliers = def.Sensitivity.CashflowMultipliers
	}
	if s.Escalation == "" {
		s.Escalation = def.Escalation
	}
	if s.RehabHorizon == 0 {
		s.RehabHorizon = def.RehabHorizon
	}
	return s
}

// Validate checks that the settings describe a usable engine.
func (s Settings) Validate() error {
	if err := validation.Finite("irr.lowerBound", s.IRR.LowerBound); err != nil {
		return err
	}
	if err := validation.Finite("irr.upperBound", s.IRR.UpperBound); err != nil {
		return err
	}
	if s.IRR.LowerBound <= -1 {
		return validation.Invalid("irr.lowerBound", "must be greater than -1, got %g", s.IRR.LowerBound)
	}
	if s.IRR.UpperBound <= s.IRR.LowerBound {
		return validation.Invalid("irr.upperBound", "must be greater than lowerBound %g, got %g",
			s.IRR.LowerBound, s.IRR.UpperBound)
	}
	if !(s.IRR.Tolerance > 0) {
		return validation.Invalid("irr.tolerance", "must be positive, got %g", s.IRR.Tolerance)
	}
	if s.IRR.MaxIterations <= 0 {
		return validation.Invalid("irr.maxIterations", "must be positive, got %d", s.IRR.MaxIterations)
	}
	if err := validateAxes(s.Sensitivity.RateOffsets, s.Sensitivity.CashflowMultipliers,
		"sensitivity.rateOffsets", "sensitivity.cashflowMultipliers"); err != nil {
		return err
	}
	if err := validation.Escalation("escalation", s.Escalation); err != nil {
		return err
	}
	return validation.Years("rehabHorizon", s.RehabHorizon)
}

// Engine evaluates scenarios with a fixed set of Settings. An Engine holds no
// mutable state and may be shared freely between goroutines.
type Engine struct {
	settings Settings
}

// NewEngine validates settings (after filling defaults) and returns an Engine.
func NewEngine(settings Settings) (*Engine, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Engine{settings: settings}, nil
}

// Settings returns a copy of the engine's effective settings.
func (e *Engine) Settings() Settings {
	s := e.settings
	s.Sensitivity.RateOffsets = append([]float64(nil), s.Sensitivity.RateOffsets...)
	s.Sensitivity.CashflowMultipliers = append([]float64(nil), s.Sensitivity.CashflowMultipliers...)
	return s
}

var defaultEngine = &Engine{settings: DefaultSettings()}
