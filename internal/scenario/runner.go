package scenario

import (
	"fmt"

	"github.com/iwvelando/scenario-engine/internal/config"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"go.uber.org/zap"
)

// Report holds every result computed for one configured scenario.
type Report struct {
	Name        string
	Projection  finance.Projection
	IRR         finance.IRRResult
	Sensitivity finance.SensitivityResult
	Rehab       *finance.RehabResult
}

// Run evaluates all active scenarios in the configuration.
func Run(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine, err := finance.NewEngine(conf.EngineSettings())
	if err != nil {
		return nil, fmt.Errorf("invalid engine settings: %w", err)
	}

	var reports []Report
	for _, sc := range conf.Scenarios {
		if !sc.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", sc.Name),
				zap.String("op", "scenario.Run"),
			)
			continue
		}

		report, err := evaluate(engine, sc)
		if err != nil {
			return reports, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		logger.Debug(fmt.Sprintf("evaluated scenario %s", sc.Name),
			zap.String("op", "scenario.Run"),
			zap.Float64("npv", report.Projection.NPV),
			zap.Bool("irrDefined", report.IRR.Rate.Defined),
		)
		reports = append(reports, report)
	}

	return reports, nil
}

func evaluate(engine *finance.Engine, sc config.Scenario) (Report, error) {
	report := Report{Name: sc.Name}

	projection, err := engine.Project(sc.ProjectionInput())
	if err != nil {
		return report, err
	}
	report.Projection = projection

	report.IRR, err = engine.IRR(sc.InitialInvestment, projection.Series)
	if err != nil {
		return report, err
	}

	report.Sensitivity, err = engine.Sensitivity(sc.SensitivityInput(projection.Series))
	if err != nil {
		return report, err
	}

	if in, ok := sc.RehabInput(); ok {
		rehab, err := engine.SimulateRehab(in)
		if err != nil {
			return report, err
		}
		report.Rehab = &rehab
	}

	return report, nil
}
