package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/output"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/scenario"
)

// TestBasicIntegration tests basic end-to-end functionality
func TestBasicIntegration(t *testing.T) {
	t.Run("configuration_loading", func(t *testing.T) {
		cfg := loadConfig(t, referenceConfigPath)

		assert.Equal(t, "reference policy", cfg.Scenario.Name)
		assert.Len(t, cfg.Scenario.Regions, 3)
		assert.Equal(t, 2050, cfg.Scenario.EndYear)

		assert.Equal(t, "CO2", cfg.Options.AbatedGas())
		assert.Equal(t, 4, cfg.Options.NumPoints())
		assert.Equal(t, "USA", cfg.Options.MarketCheckRegion())
		assert.Equal(t, 2005, cfg.Options.DiscountStartYear())
		assert.True(t, cfg.Options.DiscountRate().Equal(decimal.NewFromFloat(0.05)))
	})

	t.Run("sweep_pipeline", func(t *testing.T) {
		_, result := runSweep(t, referenceConfigPath)

		require.True(t, result.Ran, "policy sweep should run")
		assert.True(t, result.Success, "all trials should solve")
		assert.Equal(t, 4, result.NumPoints)
		assert.Len(t, result.TrialSucceeded, 5, "four scaled trials plus the baseline slot")

		// One marginal abatement cost curve per period and region, the
		// model-wide aggregate included.
		require.Len(t, result.PeriodCurves, 3)
		curves := result.PeriodCurves[1]
		for _, region := range []string{"USA", "EU", "China", domain.AggregateRegion} {
			assert.Contains(t, curves, region, "period curves should cover %s", region)
		}

		// USA carries a tax, so its curve samples every trial: (0, 0)
		// from the zero-tax trial up to the full baseline tax.
		usa := curves["USA"]
		require.Equal(t, result.NumPoints+1, usa.Len(), "taxed region should sample one point per trial")
		points := usa.Points()
		assert.True(t, points[0].X.IsZero(), "zero-tax trial should abate nothing")
		assert.True(t, points[0].Y.IsZero())
		assert.True(t, points[len(points)-1].Y.Equal(decimal.NewFromInt(90)),
			"baseline trial should carry the full configured tax")

		// China has no tax: every trial lands on the same (0, 0) sample.
		assert.Equal(t, 1, curves["China"].Len(), "untaxed region's samples should collapse to one point")

		// The aggregate pseudo-region keeps its period curves but takes
		// no part in regional aggregation.
		assert.NotContains(t, result.RegionalCurves, domain.AggregateRegion)
		assert.NotContains(t, result.Summary.Regional, domain.AggregateRegion)
		require.Len(t, result.Summary.Regional, 3)

		// Global totals are the sum over true regions.
		sum := decimal.Zero
		sumDisc := decimal.Zero
		for _, cost := range result.Summary.Regional {
			sum = sum.Add(cost.Undiscounted)
			sumDisc = sumDisc.Add(cost.Discounted)
		}
		assert.True(t, result.Summary.GlobalCost.Equal(sum), "global cost should sum the regions")
		assert.True(t, result.Summary.GlobalDiscountedCost.Equal(sumDisc))

		usaCost := result.Summary.Regional["USA"]
		assert.True(t, usaCost.Undiscounted.IsPositive(), "taxed region should carry a positive cost")
		assert.True(t, usaCost.Discounted.LessThan(usaCost.Undiscounted),
			"discounting at a positive rate should shrink the cost")
		assert.True(t, result.Summary.Regional["China"].Undiscounted.IsZero(),
			"untaxed region should contribute zero cost")

		// Regional cost curves sample one point per period year, with a
		// zero cost in the tax-free first period.
		usaCurve := result.RegionalCurves["USA"]
		require.Equal(t, 3, usaCurve.Len())
		assert.True(t, usaCurve.Y(decimal.NewFromInt(2020)).IsZero())
	})

	t.Run("output_generation", func(t *testing.T) {
		_, result := runSweep(t, referenceConfigPath)

		for _, format := range []string{"console", "console-lite", "json", "csv", "detailed-csv", "xml"} {
			data, err := output.GenerateReport(result, format)
			assert.NoError(t, err, "should generate %s output", format)
			assert.NotEmpty(t, data, "%s output should not be empty", format)
		}
	})

	t.Run("configuration_validation", func(t *testing.T) {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(referenceConfigPath)
		require.NoError(t, err)

		err = parser.ValidateConfiguration(cfg)
		assert.NoError(t, err, "valid configuration should pass validation")
	})
}

// TestErrorHandling tests error conditions
func TestErrorHandling(t *testing.T) {
	t.Run("missing_config_file", func(t *testing.T) {
		parser := config.NewInputParser()
		_, err := parser.LoadFromFile("nonexistent.yaml")
		assert.Error(t, err, "should fail for missing config file")
	})

	t.Run("invalid_config_structure", func(t *testing.T) {
		parser := config.NewInputParser()

		err := parser.ValidateConfiguration(&config.Config{})
		assert.Error(t, err, "should fail validation for empty config")
	})

	t.Run("invalid_sweep_config", func(t *testing.T) {
		cfg := loadConfig(t, referenceConfigPath)
		scn, err := scenario.NewStylized(&cfg.Scenario, zap.NewNop())
		require.NoError(t, err)

		calc := policycost.NewCalculator(scn, policycost.Config{}, zap.NewNop())
		_, err = calc.CalculateAbatementCostCurve(context.Background())
		assert.Error(t, err, "zero-value sweep config should be rejected")
		assert.Contains(t, err.Error(), "invalid cost curve config")
	})

	t.Run("skipped_sweep_has_no_output", func(t *testing.T) {
		_, result := runSweep(t, noPolicyConfigPath)

		assert.False(t, result.Ran, "unconstrained run should skip the sweep")
		assert.True(t, result.Success, "skipping is not a failure")
		assert.Empty(t, result.TrialSucceeded, "no trials should have been executed")

		for _, format := range output.AvailableFormatterNames() {
			_, err := output.GenerateReport(result, format)
			assert.ErrorIs(t, err, output.ErrNoCostOutput,
				"%s formatter should refuse a skipped sweep", format)
		}
	})

	t.Run("skipped_sweep_cannot_reaggregate", func(t *testing.T) {
		calc, result := runSweep(t, noPolicyConfigPath)

		_, err := calc.AggregateAt(result, decimal.NewFromFloat(0.03), 2005)
		assert.Error(t, err, "re-aggregation needs a sweep that ran")
	})
}

// TestPerformance tests basic performance requirements
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance tests in short mode")
	}

	t.Run("sweep_performance", func(t *testing.T) {
		cfg := loadConfig(t, referenceConfigPath)
		calc := newCalculator(t, cfg)

		start := time.Now()
		result, err := calc.CalculateAbatementCostCurve(context.Background())
		duration := time.Since(start)

		require.NoError(t, err, "should complete sweep")
		assert.Less(t, duration, 30*time.Second, "Sweep should complete within 30 seconds")

		t.Logf("Sweep completed in %v", duration)
		t.Logf("Executed %d trials", len(result.TrialSucceeded))
	})
}

// TestDataConsistency tests data consistency across operations
func TestDataConsistency(t *testing.T) {
	t.Run("curve_consistency", func(t *testing.T) {
		// Two sweeps from scratch must fit identical curves, down to
		// the individual samples. Region iteration is sorted and the
		// arithmetic is decimal, so no tolerance is needed.
		_, result1 := runSweep(t, referenceConfigPath)
		_, result2 := runSweep(t, referenceConfigPath)

		require.Equal(t, len(result1.PeriodCurves), len(result2.PeriodCurves))
		for p := range result1.PeriodCurves {
			curves1, curves2 := result1.PeriodCurves[p], result2.PeriodCurves[p]
			require.Equal(t, curves1.Regions(), curves2.Regions(), "period %d should cover the same regions", p)

			for _, region := range curves1.Regions() {
				points1 := curves1[region].Points()
				points2 := curves2[region].Points()
				require.Equal(t, len(points1), len(points2),
					"period %d curve for %s should have the same samples", p, region)
				for i := range points1 {
					assert.True(t, points1[i].X.Equal(points2[i].X),
						"period %d curve for %s should match at sample %d", p, region, i)
					assert.True(t, points1[i].Y.Equal(points2[i].Y),
						"period %d curve for %s should match at sample %d", p, region, i)
				}
			}
		}

		require.Equal(t, result1.RegionalCurves.Regions(), result2.RegionalCurves.Regions())
		for _, region := range result1.RegionalCurves.Regions() {
			points1 := result1.RegionalCurves[region].Points()
			points2 := result2.RegionalCurves[region].Points()
			require.Equal(t, len(points1), len(points2))
			for i := range points1 {
				assert.True(t, points1[i].Y.Equal(points2[i].Y),
					"regional cost curve for %s should match at sample %d", region, i)
			}
		}
	})
}
