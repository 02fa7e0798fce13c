package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/iwvelando/scenario-engine/internal/metrics"
	"github.com/iwvelando/scenario-engine/internal/store"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"github.com/iwvelando/scenario-engine/pkg/loans"
	"go.uber.org/zap"
)

// SnapshotKindCashflow marks snapshots holding a BuildingProjection.
const SnapshotKindCashflow = "cashflow"

// BuildingProjectionRequest selects the horizon and discounting for a stored building.
type BuildingProjectionRequest struct {
	Years        int     `json:"years"`
	DiscountRate float64 `json:"discountRate"`
	Escalation   string  `json:"escalation,omitempty"`
}

// BuildingProjection is a projection seeded from a stored building together
// with its property ratios and debt schedule.
type BuildingProjection struct {
	Building          store.BuildingFinancials `json:"building"`
	Equity            float64                  `json:"equity"`
	AnnualDebtService float64                  `json:"annualDebtService"`
	Projection        finance.Projection       `json:"projection"`
	IRR               finance.IRRResult        `json:"irr"`
	Ratios            finance.Ratios           `json:"ratios"`
	DebtSchedule      []loans.YearSummary      `json:"debtSchedule,omitempty"`
}

// ProjectBuilding loads a building and projects its cash flow. The equity
// (property value less loan principal) is treated as the initial investment.
func (s *Service) ProjectBuilding(ctx context.Context, id uuid.UUID, req BuildingProjectionRequest) (BuildingProjection, error) {
	if s.store == nil {
		return BuildingProjection{}, ErrStoreUnavailable
	}

	building, err := s.store.GetBuildingFinancials(ctx, id)
	if err != nil {
		return BuildingProjection{}, err
	}

	result, err := s.projectBuilding(building, req)
	if err != nil {
		recordError("building", err)
		return BuildingProjection{}, err
	}
	metrics.RecordCalculation("building", metrics.OutcomeOK)

	s.logger.Info("projected building",
		zap.String("op", "scenario.ProjectBuilding"),
		zap.String("building", id.String()),
		zap.Int("years", req.Years),
		zap.Float64("npv", result.Projection.NPV),
	)
	return result, nil
}

func (s *Service) projectBuilding(b store.BuildingFinancials, req BuildingProjectionRequest) (BuildingProjection, error) {
	equity := math.Max(0, b.PropertyValue-b.LoanPrincipal)

	var debtService float64
	var schedule []loans.YearSummary
	if b.LoanPrincipal > 0 {
		var err error
		debtService, err = loans.AnnualDebtService(b.LoanPrincipal, b.LoanRate, b.LoanTermMonths)
		if err != nil {
			return BuildingProjection{}, err
		}
		schedule, err = loans.YearlySchedule(b.LoanPrincipal, b.LoanRate, b.LoanTermMonths, req.Years)
		if err != nil {
			return BuildingProjection{}, err
		}
	}

	projection, err := s.engine.Project(finance.ProjectionInput{
		Years:             req.Years,
		DiscountRate:      req.DiscountRate,
		InitialInvestment: equity,
		Income: finance.IncomeAssumptions{
			Base:        b.AnnualIncome,
			GrowthRate:  b.IncomeGrowth,
			VacancyRate: b.VacancyRate,
		},
		Expenses: finance.ExpenseAssumptions{
			Base:       b.AnnualExpenses,
			GrowthRate: b.ExpenseGrowth,
		},
		Escalation: req.Escalation,
	})
	if err != nil {
		return BuildingProjection{}, err
	}

	irr, err := s.engine.IRR(equity, projection.Series)
	if err != nil {
		return BuildingProjection{}, err
	}

	ratios, err := finance.ComputeRatios(finance.RatioInput{
		GrossIncome:       projection.Rows[0].Income,
		OperatingExpenses: projection.Rows[0].Expenses,
		PropertyValue:     b.PropertyValue,
		EquityInvested:    equity,
		AnnualDebtService: debtService,
	})
	if err != nil {
		return BuildingProjection{}, err
	}

	return BuildingProjection{
		Building:          b,
		Equity:            equity,
		AnnualDebtService: debtService,
		Projection:        projection,
		IRR:               irr,
		Ratios:            ratios,
		DebtSchedule:      schedule,
	}, nil
}

// SnapshotBuilding projects a building and persists the result.
func (s *Service) SnapshotBuilding(ctx context.Context, id uuid.UUID, req BuildingProjectionRequest) (store.Snapshot, error) {
	result, err := s.ProjectBuilding(ctx, id, req)
	if err != nil {
		return store.Snapshot{}, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("unable to encode snapshot: %w", err)
	}

	snap, err := s.store.SaveSnapshot(ctx, store.Snapshot{
		BuildingID: id,
		Kind:       SnapshotKindCashflow,
		Payload:    payload,
	})
	if err != nil {
		return store.Snapshot{}, err
	}

	s.logger.Info("saved building snapshot",
		zap.String("op", "scenario.SnapshotBuilding"),
		zap.String("building", id.String()),
		zap.String("snapshot", snap.ID.String()),
	)
	return snap, nil
}

// GetSnapshot reads back a stored snapshot.
func (s *Service) GetSnapshot(ctx context.Context, id uuid.UUID) (store.Snapshot, error) {
	if s.store == nil {
		return store.Snapshot{}, ErrStoreUnavailable
	}
	return s.store.GetSnapshot(ctx, id)
}
