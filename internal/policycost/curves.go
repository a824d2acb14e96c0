package policycost

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
)

// buildPeriodCurves fits one marginal abatement cost curve per model
// period and region. For trial i the abatement point is
//
//	reduction_i = quantity_N(region, year) - quantity_i(region, year)
//	tax_i       = price_i(region, year)
//
// with the baseline trial contributing (0, full baseline tax). The
// region key set of the baseline trial is authoritative; any trial
// missing one of those regions is a fatal structural error.
func (c *Calculator) buildPeriodCurves(result *domain.SweepResult) error {
	n := c.cfg.NumPoints
	trials := result.Trials
	baseline := trials.Quantity[n]
	regions := baseline.Regions()

	periodCurves := make([]domain.RegionCurveMap, len(result.ModelTime.Periods))
	for p, period := range result.ModelTime.Periods {
		year := decimal.NewFromInt(int64(period.Year))
		curves := make(domain.RegionCurveMap, len(regions))

		for _, region := range regions {
			baseQ := baseline[region]
			mac := curve.New()

			for i := 0; i <= n; i++ {
				qc, ok := trials.Quantity[i][region]
				if !ok {
					return fmt.Errorf("region %q missing from trial %d quantity curves", region, i)
				}
				pc, ok := trials.Price[i][region]
				if !ok {
					return fmt.Errorf("region %q missing from trial %d price curves", region, i)
				}

				reduction := baseQ.Y(year).Sub(qc.Y(year))
				tax := pc.Y(year)
				mac.AddPoint(reduction, tax)
			}

			curves[region] = mac
		}

		periodCurves[p] = curves
	}

	result.PeriodCurves = periodCurves
	return nil
}

// aggregateRegionalCurves integrates each period's abatement curve
// into a scalar period cost, strings those up as a cost-versus-year
// curve per region, and integrates once more over the model horizon
// to produce undiscounted and discounted totals. The aggregate
// pseudo-region keeps its period curves for reporting but takes no
// part in this stage, so global totals span true regions only.
func (c *Calculator) aggregateRegionalCurves(result *domain.SweepResult) {
	regional, summary := c.aggregate(result, c.cfg.DiscountRate, c.cfg.DiscountStartYear)
	result.RegionalCurves = regional
	result.Summary = summary
}

func (c *Calculator) aggregate(result *domain.SweepResult, rate decimal.Decimal, startYear int) (domain.RegionCurveMap, domain.PolicySummary) {
	regions := collectRegions(result.PeriodCurves)
	start := decimal.NewFromInt(int64(startYear))
	end := decimal.NewFromInt(int64(result.ModelTime.EndYear))

	regional := make(domain.RegionCurveMap, len(regions))
	summary := domain.PolicySummary{
		Regional: make(map[string]domain.RegionCost, len(regions)),
	}

	for _, region := range regions {
		if region == domain.AggregateRegion {
			continue
		}
		costs := curve.New()
		for p, period := range result.ModelTime.Periods {
			mac, ok := result.PeriodCurves[p][region]
			if !ok {
				continue
			}
			periodCost := mac.Integral(mac.MinX(), curve.UnboundedUpper)
			costs.AddPoint(decimal.NewFromInt(int64(period.Year)), periodCost)
		}
		regional[region] = costs

		cost := domain.RegionCost{
			Undiscounted: costs.Integral(start, end),
			Discounted:   costs.DiscountedValue(start, end, rate),
		}
		summary.Regional[region] = cost
		summary.GlobalCost = summary.GlobalCost.Add(cost.Undiscounted)
		summary.GlobalDiscountedCost = summary.GlobalDiscountedCost.Add(cost.Discounted)
	}

	c.logger.Debug("aggregated regional cost curves",
		zap.Int("regions", len(regions)),
		zap.String("discountRate", rate.String()),
		zap.Int("discountStartYear", startYear))
	return regional, summary
}

// AggregateAt recomputes the regional aggregation of a completed sweep
// under a different discount rate and start year. The trial curves and
// period curves are reused as-is, so no simulation runs are needed.
func (c *Calculator) AggregateAt(result *domain.SweepResult, rate decimal.Decimal, startYear int) (domain.PolicySummary, error) {
	if result == nil || !result.Ran {
		return domain.PolicySummary{}, fmt.Errorf("cannot re-aggregate a sweep that did not run")
	}
	if startYear < 1 {
		return domain.PolicySummary{}, fmt.Errorf("discount start year must be positive, got %d", startYear)
	}
	_, summary := c.aggregate(result, rate, startYear)
	return summary, nil
}

// collectRegions gathers the union of region names across all period
// curve maps in sorted order. Period curves are built from a single
// authoritative key set, so in practice every map carries the same
// regions; the union guards against empty periods.
func collectRegions(periodCurves []domain.RegionCurveMap) []string {
	seen := make(map[string]bool)
	var regions []string
	for _, curves := range periodCurves {
		for _, region := range curves.Regions() {
			if !seen[region] {
				seen[region] = true
				regions = append(regions, region)
			}
		}
	}
	// Regions() returns sorted keys per map; the union preserves order
	// only when maps agree, so sort once more for determinism.
	sort.Strings(regions)
	return regions
}
