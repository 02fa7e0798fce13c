// Package config defines the data structures related to configuration and
// includes functions for loading and validating scenario files.
package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/scenario-engine/pkg/finance"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the scenario engine CLI.
type Configuration struct {
	Logging   LoggingConfig    `yaml:"logging,omitempty"`
	Output    OutputConfig     `yaml:"output,omitempty"`
	Engine    finance.Settings `yaml:"engine,omitempty"`
	Scenarios []Scenario       `yaml:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Scenario is one building case to evaluate.
type Scenario struct {
	Name              string
	Active            bool
	Years             int
	DiscountRate      float64
	InitialInvestment float64
	Income            finance.IncomeAssumptions
	Expenses          finance.ExpenseAssumptions
	Escalation        string
	Rehab             *Rehab
	Sensitivity       *Sensitivity
}

// Rehab describes an optional rehabilitation evaluated alongside a scenario.
// It is discounted at the scenario's rate.
type Rehab struct {
	Cost              float64
	IncrementalIncome float64
	Horizon           int
}

// Sensitivity overrides the engine's default grid axes for one scenario.
type Sensitivity struct {
	RateOffsets         []float64
	CashflowMultipliers []float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &configuration, nil
}

// EngineSettings returns the engine section with defaults filled in.
func (c *Configuration) EngineSettings() finance.Settings {
	return c.Engine.WithDefaults()
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ProjectionInput maps the scenario onto the engine's projection input.
func (s Scenario) ProjectionInput() finance.ProjectionInput {
	return finance.ProjectionInput{
		Years:             s.Years,
		DiscountRate:      s.DiscountRate,
		InitialInvestment: s.InitialInvestment,
		Income:            s.Income,
		Expenses:          s.Expenses,
		Escalation:        s.Escalation,
	}
}

// RehabInput maps the optional rehab section onto the engine's rehab input.
// It returns false when the scenario has no rehab.
func (s Scenario) RehabInput() (finance.RehabInput, bool) {
	if s.Rehab == nil {
		return finance.RehabInput{}, false
	}
	rate := s.DiscountRate
	return finance.RehabInput{
		RehabCost:         s.Rehab.Cost,
		IncrementalIncome: s.Rehab.IncrementalIncome,
		DiscountRate:      &rate,
		Horizon:           s.Rehab.Horizon,
	}, true
}

// SensitivityInput builds a grid request around the projected series.
func (s Scenario) SensitivityInput(series []float64) finance.SensitivityInput {
	in := finance.SensitivityInput{
		BaseDiscountRate:  s.DiscountRate,
		BaseCashflows:     series,
		InitialInvestment: s.InitialInvestment,
	}
	if s.Sensitivity != nil {
		in.RateOffsets = s.Sensitivity.RateOffsets
		in.CashflowMultipliers = s.Sensitivity.CashflowMultipliers
	}
	return in
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard errors are left to the engine when scenarios run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Scenarios) == 0 {
		return append(warnings, "No scenarios configured")
	}
	if len(c.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios; nothing will be evaluated")
	}

	seen := make(map[string]bool)
	for _, scenario := range c.Scenarios {
		key := strings.ToLower(strings.TrimSpace(scenario.Name))
		if key == "" {
			warnings = append(warnings, "Scenario with an empty name")
		} else if seen[key] {
			warnings = append(warnings, fmt.Sprintf("Duplicate scenario name '%s'", scenario.Name))
		}
		seen[key] = true

		if scenario.DiscountRate > 0.25 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' discount rate %.2f looks high; rates are fractions, not percentages",
				scenario.Name, scenario.DiscountRate))
		}
		if scenario.Income.GrowthRate > 0.2 || scenario.Expenses.GrowthRate > 0.2 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' growth rate above 20%% per year", scenario.Name))
		}
		if scenario.Expenses.Base > scenario.Income.Base*(1-scenario.Income.VacancyRate) {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' starts with expenses above effective income", scenario.Name))
		}
		if scenario.Rehab != nil && scenario.Rehab.IncrementalIncome <= 0 {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' rehab never pays back", scenario.Name))
		}
	}

	return warnings
}
