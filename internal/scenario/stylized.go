package scenario

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/emissions"
)

// Stylized is a closed-form reference simulation: each region's
// emissions are an activity level (supplied by its emissions driver)
// times an emissions intensity, damped by an abatement response to the
// installed tax. It models a single abatable gas, so the gas argument
// of the Scenario methods is accepted but not dispatched on.
//
// The constructor solves the model once under the configured baseline
// taxes, mirroring a policy run that has already executed before cost
// analysis starts.
type Stylized struct {
	name    string
	time    domain.ModelTime
	regions []*stylizedRegion
	logger  *zap.Logger
	runs    int
}

type stylizedRegion struct {
	name      string
	intensity decimal.Decimal
	driver    emissions.Driver
	activity  regionActivity
	maxShare  decimal.Decimal
	resp      decimal.Decimal

	hasPolicy bool
	activeTax []decimal.Decimal
	emissions []decimal.Decimal
}

// regionActivity serves the per-period input/output series of one
// region to its emissions driver.
type regionActivity struct {
	inputs  map[string][]decimal.Decimal
	outputs []decimal.Decimal
}

func (a regionActivity) PhysicalDemand(input string, period int) (decimal.Decimal, bool) {
	series, ok := a.inputs[input]
	if !ok || period < 0 || period >= len(series) {
		return decimal.Zero, false
	}
	return series[period], true
}

func (a regionActivity) PhysicalOutput(period int) (decimal.Decimal, bool) {
	if period < 0 || period >= len(a.outputs) {
		return decimal.Zero, false
	}
	return a.outputs[period], true
}

// NewStylized builds the reference simulation from a validated
// scenario configuration and solves the baseline.
func NewStylized(cfg *config.ScenarioConfig, logger *zap.Logger) (*Stylized, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Stylized{
		name:   cfg.Name,
		time:   cfg.ModelTime(),
		logger: logger,
	}

	numPeriods := s.time.NumPeriods()
	for _, rc := range cfg.Regions {
		driver, err := emissions.NewDriver(rc.Driver)
		if err != nil {
			return nil, err
		}

		region := &stylizedRegion{
			name:      rc.Name,
			intensity: rc.Intensity,
			driver:    driver,
			activity: regionActivity{
				inputs:  rc.Inputs,
				outputs: rc.Outputs,
			},
			maxShare:  rc.Abatement.MaxShare,
			resp:      rc.Abatement.Responsiveness,
			hasPolicy: len(rc.BaselineTax) > 0,
			activeTax: make([]decimal.Decimal, numPeriods),
			emissions: make([]decimal.Decimal, numPeriods),
		}
		for p := 0; p < numPeriods && p < len(rc.BaselineTax); p++ {
			region.activeTax[p] = rc.BaselineTax[p]
		}
		s.regions = append(s.regions, region)
	}

	s.solve()
	return s, nil
}

// Name returns the scenario name.
func (s *Stylized) Name() string {
	return s.name
}

// ModelTime returns the period structure.
func (s *Stylized) ModelTime() domain.ModelTime {
	return s.time
}

// Runs returns how many times the model has been solved, the baseline
// solve included.
func (s *Stylized) Runs() int {
	return s.runs
}

// MarketPrice returns the installed tax for the region at the period.
// Regions without a tax policy, unknown regions, and out-of-range
// periods have no market and return the sentinel.
func (s *Stylized) MarketPrice(gas, region string, period int) decimal.Decimal {
	r := s.region(region)
	if r == nil || !r.hasPolicy {
		return NoMarketPrice
	}
	if period < 0 || period >= len(r.activeTax) {
		return NoMarketPrice
	}
	return r.activeTax[period]
}

// SetActiveTax installs a per-period tax schedule for the region.
// Unknown regions (the synthesized aggregate included) are ignored.
// Short schedules are padded with zero.
func (s *Stylized) SetActiveTax(gas, region string, taxesByPeriod []decimal.Decimal) {
	r := s.region(region)
	if r == nil {
		return
	}
	for p := range r.activeTax {
		if p < len(taxesByPeriod) {
			r.activeTax[p] = taxesByPeriod[p]
		} else {
			r.activeTax[p] = decimal.Zero
		}
	}
}

// RunSimulation recomputes every region's emissions under the
// currently installed taxes.
func (s *Stylized) RunSimulation(ctx context.Context, allPeriods bool, outputTag string) bool {
	if ctx != nil && ctx.Err() != nil {
		s.logger.Warn("simulation aborted", zap.String("tag", outputTag), zap.Error(ctx.Err()))
		return false
	}

	for _, r := range s.regions {
		for p := 0; p < s.time.NumPeriods(); p++ {
			r.emissions[p] = r.emissionsAt(p, r.activeTax[p])
		}
	}
	s.runs++
	s.logger.Debug("solved stylized scenario",
		zap.String("tag", outputTag),
		zap.Int("runs", s.runs))
	return true
}

// emissionsAt computes one region-period emissions level under a tax.
func (r *stylizedRegion) emissionsAt(period int, tax decimal.Decimal) decimal.Decimal {
	level := r.driver.Level(r.activity, period)
	unabated := level.Mul(r.intensity)

	exponent := r.resp.Mul(tax).Neg().InexactFloat64()
	decay := decimal.NewFromFloat(math.Exp(exponent))
	one := decimal.NewFromInt(1)
	abatedShare := r.maxShare.Mul(one.Sub(decay))
	return unabated.Mul(one.Sub(abatedShare))
}

// EmissionsQuantityCurves returns per-region emissions by year, plus
// the synthesized aggregate region holding the model-wide sum.
func (s *Stylized) EmissionsQuantityCurves(gas string) domain.RegionCurveMap {
	curves := make(domain.RegionCurveMap, len(s.regions)+1)
	global := curve.New()

	for p, period := range s.time.Periods {
		year := decimal.NewFromInt(int64(period.Year))
		total := decimal.Zero
		for _, r := range s.regions {
			total = total.Add(r.emissions[p])
		}
		global.AddPoint(year, total)
	}
	for _, r := range s.regions {
		c := curve.New()
		for p, period := range s.time.Periods {
			c.AddPoint(decimal.NewFromInt(int64(period.Year)), r.emissions[p])
		}
		curves[r.name] = c
	}
	curves[domain.AggregateRegion] = global
	return curves
}

// EmissionsPriceCurves returns per-region installed taxes by year,
// plus the synthesized aggregate region holding the emissions-weighted
// mean tax (simple mean when total emissions are zero).
func (s *Stylized) EmissionsPriceCurves(gas string) domain.RegionCurveMap {
	curves := make(domain.RegionCurveMap, len(s.regions)+1)
	global := curve.New()

	for p, period := range s.time.Periods {
		year := decimal.NewFromInt(int64(period.Year))
		weighted := decimal.Zero
		totalQ := decimal.Zero
		unweighted := decimal.Zero
		for _, r := range s.regions {
			weighted = weighted.Add(r.activeTax[p].Mul(r.emissions[p]))
			totalQ = totalQ.Add(r.emissions[p])
			unweighted = unweighted.Add(r.activeTax[p])
		}
		mean := decimal.Zero
		if totalQ.IsPositive() {
			mean = weighted.Div(totalQ)
		} else if len(s.regions) > 0 {
			mean = unweighted.Div(decimal.NewFromInt(int64(len(s.regions))))
		}
		global.AddPoint(year, mean)
	}
	for _, r := range s.regions {
		c := curve.New()
		for p, period := range s.time.Periods {
			c.AddPoint(decimal.NewFromInt(int64(period.Year)), r.activeTax[p])
		}
		curves[r.name] = c
	}
	curves[domain.AggregateRegion] = global
	return curves
}

// solve runs the baseline without counting ctx or logging as a trial.
func (s *Stylized) solve() {
	for _, r := range s.regions {
		for p := 0; p < s.time.NumPeriods(); p++ {
			r.emissions[p] = r.emissionsAt(p, r.activeTax[p])
		}
	}
	s.runs++
}

func (s *Stylized) region(name string) *stylizedRegion {
	for _, r := range s.regions {
		if r.name == name {
			return r
		}
	}
	return nil
}
