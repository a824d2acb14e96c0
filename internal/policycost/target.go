package policycost

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/domain"
)

// TargetGoal defines what quantity the solver matches.
type TargetGoal string

const (
	// GoalMatchReduction finds the tax scale whose cumulative global
	// abatement, relative to the unconstrained model, equals the target.
	GoalMatchReduction TargetGoal = "match_reduction"
	// GoalMatchCost finds the tax scale whose global undiscounted
	// policy cost equals the target.
	GoalMatchCost TargetGoal = "match_cost"
)

// SolverOptions configures the target solver.
type SolverOptions struct {
	Tolerance     decimal.Decimal // convergence tolerance, in target units
	MaxIterations int
	ScaleEpsilon  decimal.Decimal // bracket width below which the search stops
}

// DefaultSolverOptions returns the default solver configuration.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.001),
		MaxIterations: 40,
		ScaleEpsilon:  decimal.NewFromFloat(0.0001),
	}
}

// TargetRequest defines one solve.
type TargetRequest struct {
	Goal   TargetGoal
	Target decimal.Decimal

	// Scale bounds for the search. MinScale defaults to 0; a zero
	// MaxScale is treated as unset and defaults to 1.
	MinScale decimal.Decimal
	MaxScale decimal.Decimal

	MaxIterations int
	Tolerance     decimal.Decimal
}

// TargetResult reports the scale found for a target.
type TargetResult struct {
	Goal            TargetGoal
	Scale           decimal.Decimal
	Achieved        decimal.Decimal
	Iterations      int
	Converged       bool
	ConvergenceInfo string

	// Sweep holds the cost sweep at the final scale for the cost goal.
	Sweep *domain.SweepResult
}

// TargetError represents errors from the target solver.
type TargetError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *TargetError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *TargetError) Unwrap() error {
	return e.Cause
}

// TargetSolver finds the fraction of the baseline tax that achieves a
// target outcome. It bisects on the scale, re-solving the scenario at
// each candidate; the response must therefore be monotone in the tax
// scale, which holds for any abatement response that does not bend
// backward. The wrapped calculator's scenario is mutated during the
// search and restored to the baseline policy afterwards.
type TargetSolver struct {
	calc    *Calculator
	options SolverOptions
	logger  *zap.Logger
}

// NewTargetSolver creates a solver around an existing calculator.
func NewTargetSolver(calc *Calculator, options SolverOptions) *TargetSolver {
	return &TargetSolver{
		calc:    calc,
		options: options,
		logger:  calc.logger,
	}
}

// NewDefaultTargetSolver creates a solver with default options.
func NewDefaultTargetSolver(calc *Calculator) *TargetSolver {
	return NewTargetSolver(calc, DefaultSolverOptions())
}

// Solve bisects on the tax scale until the goal quantity is within
// tolerance of the target. When the target exceeds what the maximum
// scale can deliver, the result at the maximum scale is returned with
// Converged=false rather than an error.
func (s *TargetSolver) Solve(ctx context.Context, req TargetRequest) (*TargetResult, error) {
	if req.Goal != GoalMatchReduction && req.Goal != GoalMatchCost {
		return nil, &TargetError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target goal: %s", req.Goal),
		}
	}
	if req.Target.LessThanOrEqual(decimal.Zero) {
		return nil, &TargetError{
			Operation: "solve",
			Message:   "target must be positive, got " + req.Target.String(),
		}
	}

	if req.MaxIterations == 0 {
		req.MaxIterations = s.options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.options.Tolerance
	}
	minScale := req.MinScale
	maxScale := req.MaxScale
	if maxScale.IsZero() {
		maxScale = decimal.NewFromInt(1)
	}
	if minScale.IsNegative() || minScale.GreaterThanOrEqual(maxScale) {
		return nil, &TargetError{
			Operation: "solve",
			Message:   fmt.Sprintf("invalid scale bounds [%s, %s]", minScale.String(), maxScale.String()),
		}
	}

	scn := s.calc.scn
	gas := s.calc.cfg.GasName
	mt := scn.ModelTime()
	if err := mt.Validate(); err != nil {
		return nil, &TargetError{
			Operation: "solve",
			Message:   "scenario reported an invalid period structure",
			Cause:     err,
		}
	}

	baseline := scn.EmissionsPriceCurves(gas)
	defer s.restoreBaseline(ctx, baseline, mt)

	// The reduction goal measures abatement against the unconstrained
	// world, so that reference is solved once up front.
	var unconstrained decimal.Decimal
	if req.Goal == GoalMatchReduction {
		quantities, err := s.evaluateQuantities(ctx, baseline, mt, decimal.Zero, "target-reference")
		if err != nil {
			return nil, err
		}
		unconstrained = s.cumulativeEmissions(quantities, mt)
	}

	iterations := 0
	evaluate := func(scale decimal.Decimal) (*TargetResult, error) {
		iterations++
		result := &TargetResult{
			Goal:       req.Goal,
			Scale:      scale,
			Iterations: iterations,
		}
		switch req.Goal {
		case GoalMatchReduction:
			quantities, err := s.evaluateQuantities(ctx, baseline, mt, scale, "target-"+strconv.Itoa(iterations))
			if err != nil {
				return nil, err
			}
			result.Achieved = unconstrained.Sub(s.cumulativeEmissions(quantities, mt))
		case GoalMatchCost:
			sweep, err := s.evaluateCost(ctx, baseline, mt, scale)
			if err != nil {
				return nil, err
			}
			result.Achieved = sweep.Summary.GlobalCost
			result.Sweep = sweep
		}
		s.logger.Debug("target solver iteration",
			zap.Int("iteration", iterations),
			zap.String("scale", scale.String()),
			zap.String("achieved", result.Achieved.String()))
		return result, nil
	}

	// Bracket check: if the top of the range cannot reach the target,
	// report it instead of bisecting toward a limit.
	atMax, err := evaluate(maxScale)
	if err != nil {
		return nil, err
	}
	if atMax.Achieved.LessThan(req.Target.Sub(req.Tolerance)) {
		atMax.ConvergenceInfo = fmt.Sprintf("target %s exceeds %s achievable at scale %s",
			req.Target.String(), atMax.Achieved.String(), maxScale.String())
		return atMax, nil
	}

	best := atMax
	two := decimal.NewFromInt(2)
	for iterations < req.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		testScale := minScale.Add(maxScale).Div(two)
		result, err := evaluate(testScale)
		if err != nil {
			return nil, err
		}

		diff := result.Achieved.Sub(req.Target)
		if diff.Abs().LessThan(req.Tolerance) {
			result.Converged = true
			result.ConvergenceInfo = fmt.Sprintf("converged to target within %s", req.Tolerance.String())
			return result, nil
		}
		if diff.LessThan(decimal.Zero) {
			minScale = testScale
		} else {
			maxScale = testScale
			best = result
		}

		if maxScale.Sub(minScale).LessThan(s.options.ScaleEpsilon) {
			best.Converged = true
			best.ConvergenceInfo = "binary search bracket collapsed"
			return best, nil
		}
	}

	best.ConvergenceInfo = fmt.Sprintf("max iterations (%d) reached", req.MaxIterations)
	return best, nil
}

// installScaled installs scale times the baseline tax on every region
// carrying a baseline price curve.
func (s *TargetSolver) installScaled(baseline domain.RegionCurveMap, mt domain.ModelTime, scale decimal.Decimal) {
	scn := s.calc.scn
	gas := s.calc.cfg.GasName
	for _, region := range baseline.Regions() {
		base := baseline[region]
		taxes := make([]decimal.Decimal, len(mt.Periods))
		for p, period := range mt.Periods {
			year := decimal.NewFromInt(int64(period.Year))
			taxes[p] = base.Y(year).Mul(scale)
		}
		scn.SetActiveTax(gas, region, taxes)
	}
}

func (s *TargetSolver) evaluateQuantities(ctx context.Context, baseline domain.RegionCurveMap, mt domain.ModelTime, scale decimal.Decimal, tag string) (domain.RegionCurveMap, error) {
	scn := s.calc.scn
	s.installScaled(baseline, mt, scale)
	if !scn.RunSimulation(ctx, true, tag) {
		return nil, &TargetError{
			Operation: "evaluate_scale",
			Message:   fmt.Sprintf("simulation failed to solve at scale %s", scale.String()),
		}
	}
	return scn.EmissionsQuantityCurves(s.calc.cfg.GasName), nil
}

// evaluateCost runs a full cost sweep with scale times the baseline
// installed as the policy under evaluation.
func (s *TargetSolver) evaluateCost(ctx context.Context, baseline domain.RegionCurveMap, mt domain.ModelTime, scale decimal.Decimal) (*domain.SweepResult, error) {
	scn := s.calc.scn
	s.installScaled(baseline, mt, scale)
	if !scn.RunSimulation(ctx, true, "target-cost") {
		return nil, &TargetError{
			Operation: "evaluate_scale",
			Message:   fmt.Sprintf("simulation failed to solve at scale %s", scale.String()),
		}
	}

	sweep, err := s.calc.CalculateAbatementCostCurve(ctx)
	if err != nil {
		return nil, &TargetError{
			Operation: "evaluate_scale",
			Message:   "cost sweep failed",
			Cause:     err,
		}
	}
	if !sweep.Ran {
		return nil, &TargetError{
			Operation: "evaluate_scale",
			Message:   "scenario has no active policy market",
		}
	}
	if !sweep.Success {
		s.logger.Warn("cost sweep at candidate scale had failed trials",
			zap.String("scale", scale.String()))
	}
	return sweep, nil
}

// cumulativeEmissions integrates each true region's quantity curve
// over the model horizon and sums the results.
func (s *TargetSolver) cumulativeEmissions(curves domain.RegionCurveMap, mt domain.ModelTime) decimal.Decimal {
	start := decimal.NewFromInt(int64(mt.Periods[0].Year))
	end := decimal.NewFromInt(int64(mt.EndYear))
	total := decimal.Zero
	for _, region := range curves.Regions() {
		if region == domain.AggregateRegion {
			continue
		}
		total = total.Add(curves[region].Integral(start, end))
	}
	return total
}

// restoreBaseline reinstalls the original policy and re-solves so the
// scenario is left as the solver found it.
func (s *TargetSolver) restoreBaseline(ctx context.Context, baseline domain.RegionCurveMap, mt domain.ModelTime) {
	s.installScaled(baseline, mt, decimal.NewFromInt(1))
	if !s.calc.scn.RunSimulation(ctx, true, "target-restore") {
		s.logger.Warn("failed to restore baseline policy after target solve")
	}
}
