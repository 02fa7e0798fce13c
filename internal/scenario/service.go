// Package scenario wires the finance engine to the result cache, the building
// store and metrics. It is shared by the HTTP server and the CLI runner.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/scenario-engine/internal/cache"
	"github.com/iwvelando/scenario-engine/internal/metrics"
	"github.com/iwvelando/scenario-engine/internal/store"
	"github.com/iwvelando/scenario-engine/pkg/finance"
	"github.com/iwvelando/scenario-engine/pkg/validation"
	"go.uber.org/zap"
)

// ErrStoreUnavailable is returned by building operations when no store is configured.
var ErrStoreUnavailable = errors.New("building store not configured")

// BuildingStore is the persistence the service needs.
type BuildingStore interface {
	GetBuildingFinancials(ctx context.Context, id uuid.UUID) (store.BuildingFinancials, error)
	SaveSnapshot(ctx context.Context, snap store.Snapshot) (store.Snapshot, error)
	GetSnapshot(ctx context.Context, id uuid.UUID) (store.Snapshot, error)
}

// Options holds the optional collaborators of a Service.
type Options struct {
	Store    BuildingStore
	Cache    cache.Cache
	CacheTTL time.Duration
}

// Service evaluates engine requests.
type Service struct {
	logger   *zap.Logger
	engine   *finance.Engine
	store    BuildingStore
	cache    cache.Cache
	cacheTTL time.Duration
}

// NPVRequest is the input of an NPV calculation.
type NPVRequest struct {
	DiscountRate      float64   `json:"discountRate"`
	InitialInvestment float64   `json:"initialInvestment"`
	Cashflows         []float64 `json:"cashflows"`
}

// NPVResult is the output of an NPV calculation.
type NPVResult struct {
	NPV float64 `json:"npv"`
}

// IRRRequest is the input of an IRR search.
type IRRRequest struct {
	InitialInvestment float64   `json:"initialInvestment"`
	Cashflows         []float64 `json:"cashflows"`
}

// NewService builds a Service. A nil engine uses the default settings and a
// nil logger discards output.
func NewService(logger *zap.Logger, engine *finance.Engine, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine, _ = finance.NewEngine(finance.DefaultSettings())
	}
	return &Service{
		logger:   logger,
		engine:   engine,
		store:    opts.Store,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
	}
}

// Settings returns the effective engine settings.
func (s *Service) Settings() finance.Settings {
	return s.engine.Settings()
}

// NPV computes the net present value of a series.
func (s *Service) NPV(ctx context.Context, req NPVRequest) (NPVResult, error) {
	return cached(ctx, s, "npv", req, func() (NPVResult, error) {
		npv, err := finance.NPV(req.DiscountRate, req.InitialInvestment, req.Cashflows)
		return NPVResult{NPV: npv}, err
	}, nil)
}

// IRR searches for the internal rate of return of a series.
func (s *Service) IRR(ctx context.Context, req IRRRequest) (finance.IRRResult, error) {
	return cached(ctx, s, "irr", req, func() (finance.IRRResult, error) {
		result, err := s.engine.IRR(req.InitialInvestment, req.Cashflows)
		if err == nil {
			metrics.RecordIRRIterations(result.Iterations)
		}
		return result, err
	}, func(r finance.IRRResult) bool { return r.Rate.Defined })
}

// Cashflow projects income and expenses over the requested horizon.
func (s *Service) Cashflow(ctx context.Context, in finance.ProjectionInput) (finance.Projection, error) {
	return cached(ctx, s, "cashflow", in, func() (finance.Projection, error) {
		return s.engine.Project(in)
	}, nil)
}

// Rehab simulates a rehabilitation investment.
func (s *Service) Rehab(ctx context.Context, in finance.RehabInput) (finance.RehabResult, error) {
	return cached(ctx, s, "rehab", in, func() (finance.RehabResult, error) {
		return s.engine.SimulateRehab(in)
	}, func(r finance.RehabResult) bool { return r.PaybackPeriod.Defined })
}

// Sensitivity builds an NPV grid around a base case.
func (s *Service) Sensitivity(ctx context.Context, in finance.SensitivityInput) (finance.SensitivityResult, error) {
	return cached(ctx, s, "sensitivity", in, func() (finance.SensitivityResult, error) {
		return s.engine.Sensitivity(in)
	}, nil)
}

// Ratios derives NOI, cap rate, gross yield, cash-on-cash and DSCR.
func (s *Service) Ratios(ctx context.Context, in finance.RatioInput) (finance.Ratios, error) {
	return cached(ctx, s, "ratios", in, func() (finance.Ratios, error) {
		return finance.ComputeRatios(in)
	}, func(r finance.Ratios) bool { return r.CapRate.Defined && r.DSCR.Defined })
}

// cached consults the cache before running compute and stores successful
// results afterwards. Cache failures are logged and otherwise ignored.
// defined reports whether a result should count as an ok or undefined outcome.
func cached[T any](ctx context.Context, s *Service, kind string, input interface{},
	compute func() (T, error), defined func(T) bool) (T, error) {
	var key string
	if s.cache != nil {
		var err error
		key, err = cache.Key(kind, input)
		if err != nil {
			s.logger.Warn("unable to build cache key",
				zap.String("op", "scenario.cached"),
				zap.String("kind", kind),
				zap.Error(err),
			)
		} else if result, ok := lookup[T](ctx, s, kind, key); ok {
			return result, nil
		}
	}

	result, err := compute()
	if err != nil {
		recordError(kind, err)
		return result, err
	}

	outcome := metrics.OutcomeOK
	if defined != nil && !defined(result) {
		outcome = metrics.OutcomeUndefined
	}
	metrics.RecordCalculation(kind, outcome)
	s.logger.Debug("calculation complete",
		zap.String("op", "scenario."+kind),
		zap.String("outcome", outcome),
	)

	if s.cache != nil && key != "" {
		s.remember(ctx, kind, key, result)
	}
	return result, nil
}

func lookup[T any](ctx context.Context, s *Service, kind, key string) (T, bool) {
	var result T
	payload, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheLookup("error")
		s.logger.Warn("cache lookup failed",
			zap.String("op", "scenario.lookup"),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return result, false
	}
	if !ok {
		metrics.RecordCacheLookup("miss")
		return result, false
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		metrics.RecordCacheLookup("error")
		s.logger.Warn("discarding undecodable cache entry",
			zap.String("op", "scenario.lookup"),
			zap.String("kind", kind),
			zap.Error(err),
		)
		var zero T
		return zero, false
	}
	metrics.RecordCacheLookup("hit")
	s.logger.Debug("cache hit",
		zap.String("op", "scenario.lookup"),
		zap.String("kind", kind),
	)
	return result, true
}

func (s *Service) remember(ctx context.Context, kind, key string, result interface{}) {
	payload, err := json.Marshal(result)
	if err == nil {
		err = s.cache.Set(ctx, key, payload, s.cacheTTL)
	}
	if err != nil {
		s.logger.Warn("unable to cache result",
			zap.String("op", "scenario.remember"),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func recordError(kind string, err error) {
	if errors.Is(err, validation.ErrInvalidInput) {
		metrics.RecordCalculation(kind, metrics.OutcomeInvalid)
	}
}
