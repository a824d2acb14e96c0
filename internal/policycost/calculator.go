// Package policycost computes the cost of an emissions tax policy by
// sweeping the simulation across scaled-down versions of the baseline
// tax, fitting marginal abatement cost curves from the sampled trials,
// and integrating them into discounted regional and global totals.
package policycost

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/scenario"
)

// marketCheckPeriod is the period probed for an active policy market.
const marketCheckPeriod = 1

// Phase is the progress state of one sweep.
type Phase int

const (
	PhaseNotRun Phase = iota
	PhaseRunningTrials
	PhaseBuildingPeriodCurves
	PhaseAggregatingRegionalCurves
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseNotRun:
		return "not_run"
	case PhaseRunningTrials:
		return "running_trials"
	case PhaseBuildingPeriodCurves:
		return "building_period_curves"
	case PhaseAggregatingRegionalCurves:
		return "aggregating_regional_curves"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Config carries the knobs of one sweep. It is passed explicitly into
// the calculator; the engine never reads configuration from anywhere
// else.
type Config struct {
	GasName           string
	NumPoints         int
	DiscountRate      decimal.Decimal
	DiscountStartYear int
	MarketCheckRegion string
}

func (c Config) validate() error {
	if c.GasName == "" {
		return fmt.Errorf("gas name is required")
	}
	if c.NumPoints < 1 {
		return fmt.Errorf("number of cost curve points must be at least 1, got %d", c.NumPoints)
	}
	if c.MarketCheckRegion == "" {
		return fmt.Errorf("market check region is required")
	}
	if c.DiscountRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("discount rate must be greater than -1, got %s", c.DiscountRate.String())
	}
	if c.DiscountStartYear < 1 {
		return fmt.Errorf("discount start year must be positive, got %d", c.DiscountStartYear)
	}
	return nil
}

// Calculator runs abatement cost sweeps against a scenario. It is
// single-threaded: trials mutate the scenario's installed tax schedule
// before each blocking solve, so nothing here may run concurrently.
// Each invocation rebuilds every curve from scratch.
type Calculator struct {
	scn    scenario.Scenario
	cfg    Config
	logger *zap.Logger

	phase Phase

	// OnPhase and OnTrialComplete, when set, observe sweep progress.
	// They are invoked synchronously from the sweep goroutine.
	OnPhase         func(Phase)
	OnTrialComplete func(trial, total int, ok bool)
}

// NewCalculator creates a calculator for the given scenario and
// configuration.
func NewCalculator(scn scenario.Scenario, cfg Config, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		scn:    scn,
		cfg:    cfg,
		logger: logger,
	}
}

// Phase returns the current progress state.
func (c *Calculator) Phase() Phase {
	return c.phase
}

// CalculateAbatementCostCurve runs one full sweep.
//
// When the configured gas has no market in the probe region the sweep
// is skipped: the returned result has Ran=false, Success=true, and no
// trials were executed, so an unconstrained model run completes
// silently with no cost output.
//
// Otherwise trial slot N is filled from the already-executed baseline
// run, trials 0..N-1 re-solve the scenario under the baseline tax
// scaled by k/N, period cost curves and regional aggregates are built,
// and Ran is set regardless of individual trial failures: a failed
// trial is logged and folded into Success, never aborting the sweep.
//
// The returned error is reserved for fatal precondition violations
// such as a region missing from a trial's curve set.
func (c *Calculator) CalculateAbatementCostCurve(ctx context.Context) (*domain.SweepResult, error) {
	if err := c.cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid cost curve config: %w", err)
	}

	c.setPhase(PhaseNotRun)
	result := &domain.SweepResult{
		RunID:        uuid.NewString(),
		ScenarioName: c.scn.Name(),
		GasName:      c.cfg.GasName,
		NumPoints:    c.cfg.NumPoints,
		ModelTime:    c.scn.ModelTime(),
	}

	price := c.scn.MarketPrice(c.cfg.GasName, c.cfg.MarketCheckRegion, marketCheckPeriod)
	if price.Equal(scenario.NoMarketPrice) {
		c.logger.Info("skipping cost curve calculation for non-policy model run",
			zap.String("gas", c.cfg.GasName),
			zap.String("region", c.cfg.MarketCheckRegion))
		result.Ran = false
		result.Success = true
		c.setPhase(PhaseDone)
		return result, nil
	}

	if err := result.ModelTime.Validate(); err != nil {
		return nil, fmt.Errorf("scenario reported an invalid period structure: %w", err)
	}

	c.setPhase(PhaseRunningTrials)
	success := c.runTrials(ctx, result)

	c.setPhase(PhaseBuildingPeriodCurves)
	if err := c.buildPeriodCurves(result); err != nil {
		return nil, err
	}

	c.setPhase(PhaseAggregatingRegionalCurves)
	c.aggregateRegionalCurves(result)

	result.Ran = true
	result.Success = success
	c.setPhase(PhaseDone)

	c.logger.Info("cost curve sweep complete",
		zap.String("run", result.RunID),
		zap.Bool("success", success),
		zap.String("globalCost", result.Summary.GlobalCost.String()),
		zap.String("globalDiscountedCost", result.Summary.GlobalDiscountedCost.String()))
	return result, nil
}

// runTrials fills trial slot N from the baseline run, then executes
// trials 0..N-1 in index order under scaled taxes. Returns the AND of
// the per-trial success flags.
func (c *Calculator) runTrials(ctx context.Context, result *domain.SweepResult) bool {
	n := c.cfg.NumPoints
	trials := domain.NewTrialSet(n)
	result.TrialSucceeded = make([]bool, n+1)

	// Slot N reuses the already-executed policy run; no extra solve.
	trials.Quantity[n] = c.scn.EmissionsQuantityCurves(c.cfg.GasName)
	trials.Price[n] = c.scn.EmissionsPriceCurves(c.cfg.GasName)
	result.TrialSucceeded[n] = true

	baselineTaxes := trials.Price[n]
	regions := baselineTaxes.Regions()
	periods := result.ModelTime.Periods

	success := true
	for k := 0; k < n; k++ {
		fraction := decimal.NewFromInt(int64(k)).Div(decimal.NewFromInt(int64(n)))

		for _, region := range regions {
			base := baselineTaxes[region]
			taxes := make([]decimal.Decimal, len(periods))
			for p, period := range periods {
				year := decimal.NewFromInt(int64(period.Year))
				taxes[p] = base.Y(year).Mul(fraction)
			}
			c.scn.SetActiveTax(c.cfg.GasName, region, taxes)
		}

		c.logger.Info("starting cost curve trial",
			zap.Int("trial", k),
			zap.Int("of", n),
			zap.String("fraction", fraction.String()))

		ok := c.scn.RunSimulation(ctx, true, strconv.Itoa(k))
		if !ok {
			c.logger.Warn("cost curve trial failed to solve; continuing sweep",
				zap.Int("trial", k))
			success = false
		}
		result.TrialSucceeded[k] = ok

		trials.Quantity[k] = c.scn.EmissionsQuantityCurves(c.cfg.GasName)
		trials.Price[k] = c.scn.EmissionsPriceCurves(c.cfg.GasName)

		if c.OnTrialComplete != nil {
			c.OnTrialComplete(k, n, ok)
		}
	}

	result.Trials = trials
	return success
}

func (c *Calculator) setPhase(p Phase) {
	c.phase = p
	c.logger.Debug("sweep phase", zap.String("phase", p.String()))
	if c.OnPhase != nil {
		c.OnPhase(p)
	}
}
