package config

import (
	"testing"

	"github.com/iwvelando/scenario-engine/pkg/constants"
	"github.com/iwvelando/scenario-engine/pkg/finance"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example scenarios",
			configPath: "testdata/scenarios.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging config: %+v", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, expected csv", config.Output.Format)
	}
	if len(config.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(config.Scenarios))
	}

	maple := config.Scenarios[0]
	if maple.Name != "Maple Court" || !maple.Active || maple.Years != 10 {
		t.Errorf("unexpected scenario header: %+v", maple)
	}
	if maple.DiscountRate != 0.08 || maple.InitialInvestment != 250000 {
		t.Errorf("unexpected rate/investment: %v / %v", maple.DiscountRate, maple.InitialInvestment)
	}
	if maple.Income != (finance.IncomeAssumptions{Base: 60000, GrowthRate: 0.03, VacancyRate: 0.05}) {
		t.Errorf("unexpected income: %+v", maple.Income)
	}
	if maple.Expenses != (finance.ExpenseAssumptions{Base: 22000, GrowthRate: 0.025}) {
		t.Errorf("unexpected expenses: %+v", maple.Expenses)
	}
	if maple.Rehab == nil || maple.Rehab.Cost != 40000 || maple.Rehab.IncrementalIncome != 6500 {
		t.Errorf("unexpected rehab: %+v", maple.Rehab)
	}
	if maple.Sensitivity == nil || len(maple.Sensitivity.RateOffsets) != 3 || maple.Sensitivity.CashflowMultipliers[2] != 1.05 {
		t.Errorf("unexpected sensitivity: %+v", maple.Sensitivity)
	}

	compound := config.Scenarios[1]
	if compound.Active || compound.Escalation != constants.EscalationCompound {
		t.Errorf("unexpected second scenario: %+v", compound)
	}
	if compound.Rehab != nil || compound.Sensitivity != nil {
		t.Errorf("optional sections should stay nil when absent")
	}
}

func TestEngineSettings(t *testing.T) {
	config, err := LoadConfiguration("testdata/scenarios.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	settings := config.EngineSettings()
	if settings.IRR.Tolerance != 1e-7 || settings.IRR.MaxIterations != 500 {
		t.Errorf("configured IRR settings lost: %+v", settings.IRR)
	}
	if settings.IRR.LowerBound != constants.IRRLowerBound || settings.IRR.UpperBound != constants.IRRUpperBound {
		t.Errorf("bracket should fall back to defaults, got %+v", settings.IRR)
	}
	if settings.Escalation != constants.EscalationFlat || settings.RehabHorizon != 8 {
		t.Errorf("unexpected escalation/horizon: %q / %d", settings.Escalation, settings.RehabHorizon)
	}
	if len(settings.Sensitivity.RateOffsets) != 5 {
		t.Errorf("default rate offsets expected, got %v", settings.Sensitivity.RateOffsets)
	}
	if _, err := finance.NewEngine(settings); err != nil {
		t.Errorf("configured settings should build an engine: %v", err)
	}
}

func TestScenarioInputs(t *testing.T) {
	scenario := Scenario{
		Name:              "Unit",
		Years:             5,
		DiscountRate:      0.07,
		InitialInvestment: 1000,
		Income:            finance.IncomeAssumptions{Base: 500},
		Expenses:          finance.ExpenseAssumptions{Base: 100},
		Escalation:        constants.EscalationFlat,
	}

	projection := scenario.ProjectionInput()
	if projection.Years != 5 || projection.DiscountRate != 0.07 || projection.Escalation != constants.EscalationFlat {
		t.Errorf("unexpected projection input: %+v", projection)
	}

	if _, ok := scenario.RehabInput(); ok {
		t.Errorf("RehabInput() should report false without a rehab section")
	}
	scenario.Rehab = &Rehab{Cost: 100, IncrementalIncome: 25, Horizon: 4}
	rehab, ok := scenario.RehabInput()
	if !ok || rehab.RehabCost != 100 || rehab.Horizon != 4 {
		t.Fatalf("unexpected rehab input: %+v", rehab)
	}
	if rehab.DiscountRate == nil || *rehab.DiscountRate != 0.07 {
		t.Errorf("rehab should be discounted at the scenario rate")
	}

	grid := scenario.SensitivityInput([]float64{400, 400})
	if grid.RateOffsets != nil || grid.BaseDiscountRate != 0.07 || grid.InitialInvestment != 1000 {
		t.Errorf("unexpected sensitivity input: %+v", grid)
	}
	scenario.Sensitivity = &Sensitivity{RateOffsets: []float64{0}}
	if grid = scenario.SensitivityInput(nil); len(grid.RateOffsets) != 1 {
		t.Errorf("scenario axes should override defaults: %+v", grid)
	}
}

func TestValidateConfiguration(t *testing.T) {
	valid := Scenario{
		Name:         "Valid",
		Active:       true,
		DiscountRate: 0.08,
		Income:       finance.IncomeAssumptions{Base: 1000},
		Expenses:     finance.ExpenseAssumptions{Base: 400},
	}

	tests := []struct {
		name          string
		scenarios     []Scenario
		expectedCount int
	}{
		{"Valid configuration", []Scenario{valid}, 0},
		{"No scenarios", nil, 1},
		{"Nothing active", []Scenario{{Name: "Idle", Income: finance.IncomeAssumptions{Base: 1}}}, 1},
		{"Duplicate names", []Scenario{valid, valid}, 1},
		{"Percentage rate", []Scenario{func() Scenario { s := valid; s.DiscountRate = 8; return s }()}, 1},
		{"Expenses exceed income", []Scenario{func() Scenario { s := valid; s.Expenses.Base = 2000; return s }()}, 1},
		{"Rehab without income", []Scenario{func() Scenario { s := valid; s.Rehab = &Rehab{Cost: 10}; return s }()}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Configuration{Scenarios: tt.scenarios}
			warnings := config.ValidateConfiguration()
			if len(warnings) != tt.expectedCount {
				t.Errorf("ValidateConfiguration() returned %d warnings %v, expected %d",
					len(warnings), warnings, tt.expectedCount)
			}
		})
	}
}

func TestLoggingConfiguration(t *testing.T) {
	config := Configuration{
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "console",
		},
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected logging level 'debug', got '%s'", config.Logging.Level)
	}

	emptyConfig := Configuration{}
	if emptyConfig.Logging.Level != "" || emptyConfig.Logging.Format != "" {
		t.Errorf("Expected empty logging config, got %+v", emptyConfig.Logging)
	}
}
