package scenes

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/emissions"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/tui/tuimsg"
)

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func macCurve(points ...float64) *curve.Curve {
	c := curve.New()
	for i := 0; i+1 < len(points); i += 2 {
		c.AddPoint(dec(points[i]), dec(points[i+1]))
	}
	return c
}

// testSweepResult builds a small completed two-region sweep.
func testSweepResult() *domain.SweepResult {
	periodCurves := make([]domain.RegionCurveMap, 3)
	for p := range periodCurves {
		scale := float64(p + 1)
		periodCurves[p] = domain.RegionCurveMap{
			"USA": macCurve(0, 0, 12, 25*scale, 20, 50*scale),
			"EU":  macCurve(0, 0, 5, 20*scale, 8, 45*scale),
		}
	}

	return &domain.SweepResult{
		RunID:        "8f14e45f",
		ScenarioName: "reference",
		GasName:      "CO2",
		NumPoints:    4,
		ModelTime: domain.ModelTime{
			Periods: []domain.ModelPeriod{
				{Index: 0, Year: 2020},
				{Index: 1, Year: 2025},
				{Index: 2, Year: 2030},
			},
			EndYear: 2050,
		},
		Ran:            true,
		Success:        true,
		TrialSucceeded: []bool{true, true, true, true, true},
		PeriodCurves:   periodCurves,
		RegionalCurves: domain.RegionCurveMap{
			"USA": macCurve(2020, 0, 2025, 5000, 2030, 11000),
			"EU":  macCurve(2020, 0, 2025, 1500, 2030, 4000),
		},
		Summary: domain.PolicySummary{
			Regional: map[string]domain.RegionCost{
				"USA": {Undiscounted: dec(60000), Discounted: dec(45000)},
				"EU":  {Undiscounted: dec(15000), Discounted: dec(11000)},
			},
			GlobalCost:           dec(75000),
			GlobalDiscountedCost: dec(56000),
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Scenario: config.ScenarioConfig{
			Name: "reference",
			Periods: []config.PeriodConfig{
				{Index: 0, Year: 2020},
				{Index: 1, Year: 2025},
				{Index: 2, Year: 2030},
			},
			EndYear: 2050,
			Regions: []config.RegionConfig{
				{
					Name:      "USA",
					Intensity: dec(2.5),
					Driver:    emissions.DriverConfig{Kind: emissions.KindInput, Input: "energy"},
					Inputs: map[string][]decimal.Decimal{
						"energy": {dec(100), dec(105), dec(110)},
					},
					Abatement:   config.AbatementConfig{MaxShare: dec(0.45), Responsiveness: dec(0.012)},
					BaselineTax: []decimal.Decimal{dec(0), dec(100), dec(150)},
				},
				{
					Name:      "EU",
					Intensity: dec(1.8),
					Driver:    emissions.DriverConfig{Kind: emissions.KindOutput},
					Outputs:   []decimal.Decimal{dec(50), dec(52), dec(55)},
					Abatement: config.AbatementConfig{MaxShare: dec(0.5), Responsiveness: dec(0.02)},
				},
			},
		},
		Options: config.Options{
			config.KeyNumPoints:         4,
			config.KeyDiscountRate:      0.05,
			config.KeyDiscountStartYear: 2005,
			config.KeyMarketCheckRegion: "USA",
		},
	}
}

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestHomeViewBeforeConfigLoads(t *testing.T) {
	m := NewHomeModel()
	assert.Contains(t, m.View(), "Loading scenario configuration...")
}

func TestHomeViewShowsScenario(t *testing.T) {
	m := NewHomeModel()
	m.SetConfig(testConfig())
	out := m.View()

	assert.Contains(t, out, "reference")
	assert.Contains(t, out, "3 (2020-2030, horizon 2050)")
	assert.Contains(t, out, "2 configured")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "⚡ policy")
	assert.Contains(t, out, "no policy")
	assert.Contains(t, out, "input-driver: energy")
	assert.Contains(t, out, "tax up to $150/t")
	assert.Contains(t, out, "CO2")
	assert.Contains(t, out, "4 (4 scaled trials + baseline)")
	assert.Contains(t, out, "5.0%/yr from 2005")
	assert.Contains(t, out, "Run the abatement cost sweep")
}

func TestSweepViewIdle(t *testing.T) {
	m := NewSweepModel()
	assert.Contains(t, m.View(), "No sweep has been run yet")
	assert.False(t, m.Running())
}

func TestSweepTracksTrialProgress(t *testing.T) {
	m := NewSweepModel()
	m.Start("reference", 5)
	require.True(t, m.Running())

	out := m.View()
	assert.Contains(t, out, "Abatement Cost Sweep: reference")
	assert.Contains(t, out, "○ Solve scaled tax trials")
	assert.Contains(t, out, "Starting sweep...")

	m.SetPhase(policycost.PhaseRunningTrials)
	m.RecordTrial(0, 5, true)
	out = m.View()
	assert.Contains(t, out, "◐ Solve scaled tax trials")
	assert.Contains(t, out, "1/5")

	m.RecordTrial(1, 5, false)
	assert.Contains(t, m.View(), "1 trial(s) failed to solve")

	m.SetPhase(policycost.PhaseBuildingPeriodCurves)
	out = m.View()
	assert.Contains(t, out, "● Solve scaled tax trials")
	assert.Contains(t, out, "◐ Fit period abatement curves")
	assert.Contains(t, out, "○ Aggregate regional cost curves")
}

func TestSweepSuccessOutcome(t *testing.T) {
	m := NewSweepModel()
	m.Start("reference", 4)
	m.SetPhase(policycost.PhaseDone)
	m.Finish(testSweepResult(), nil)

	out := m.View()
	assert.False(t, m.Running())
	assert.Contains(t, out, "✓ Sweep complete.")
	assert.Contains(t, out, "Press 's' for the cost summary")
}

func TestSweepPartialFailureOutcome(t *testing.T) {
	m := NewSweepModel()
	m.Start("reference", 4)
	m.SetPhase(policycost.PhaseRunningTrials)
	m.RecordTrial(0, 4, false)
	m.SetPhase(policycost.PhaseDone)

	result := testSweepResult()
	result.Success = false
	m.Finish(result, nil)

	assert.Contains(t, m.View(), "1 failed trial(s)")
}

func TestSweepSkippedWithoutPolicyMarket(t *testing.T) {
	m := NewSweepModel()
	m.Start("no-policy", 4)
	m.Finish(&domain.SweepResult{Ran: false, Success: true}, nil)

	out := m.View()
	assert.Contains(t, out, "No policy market detected in the probe region.")
	assert.Contains(t, out, "The sweep was skipped")
}

func TestSweepErrorOutcome(t *testing.T) {
	m := NewSweepModel()
	m.Start("reference", 4)
	m.Finish(nil, errors.New("solver exploded"))

	assert.Contains(t, m.View(), "Sweep failed: solver exploded")
}

func TestCurvesViewWithoutSweep(t *testing.T) {
	m := NewCurvesModel()
	assert.Contains(t, m.View(), "No curves to display")

	// Keys are ignored until a sweep lands.
	m, cmd := m.Update(keyPress(tea.KeyLeft))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No curves to display")
}

func TestCurvesStartAtFinalPeriod(t *testing.T) {
	m := NewCurvesModel()
	m.SetSweep(testSweepResult())

	out := m.View()
	assert.Contains(t, out, "Marginal Abatement Cost (2030)")
	assert.Contains(t, out, "period 3/3")
	assert.Contains(t, out, "abatement (Mt)")
	assert.Contains(t, out, "/t")
	assert.Contains(t, out, "USA")
	assert.Contains(t, out, "EU")
}

func TestCurvesPeriodNavigationWraps(t *testing.T) {
	m := NewCurvesModel()
	m.SetSweep(testSweepResult())

	m, _ = m.Update(keyPress(tea.KeyLeft))
	assert.Contains(t, m.View(), "Marginal Abatement Cost (2025)")

	m, _ = m.Update(keyPress(tea.KeyRight))
	assert.Contains(t, m.View(), "Marginal Abatement Cost (2030)")

	m, _ = m.Update(keyPress(tea.KeyRight))
	assert.Contains(t, m.View(), "Marginal Abatement Cost (2020)")
	assert.Contains(t, m.View(), "period 1/3")
}

func TestCurvesTabTogglesRegionalMode(t *testing.T) {
	m := NewCurvesModel()
	m.SetSweep(testSweepResult())

	m, _ = m.Update(keyPress(tea.KeyTab))
	out := m.View()
	assert.Contains(t, out, "Regional Policy Cost by Year")
	assert.Contains(t, out, "2020")
	assert.Contains(t, out, "2030")
	assert.Contains(t, out, "tab: period abatement curves")

	// Period keys do nothing while the regional chart is up.
	m, _ = m.Update(keyPress(tea.KeyLeft))
	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Contains(t, m.View(), "Marginal Abatement Cost (2030)")
}

func TestRatesViewWithoutSweep(t *testing.T) {
	m := NewRatesModel()
	assert.Contains(t, m.View(), "No sweep results to re-discount")

	m, cmd := m.Update(keyPress(tea.KeyRight))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No sweep results to re-discount")
}

func TestRatesSeedsSlidersFromSweep(t *testing.T) {
	m := NewRatesModel()
	m.SetSweep(testSweepResult(), dec(0.05), 2005)

	assert.True(t, m.Rate().Equal(dec(0.05)))
	assert.Equal(t, 2005, m.StartYear())

	out := m.View()
	assert.Contains(t, out, "Discount Rate Explorer")
	assert.Contains(t, out, "5.0%")
	assert.Contains(t, out, "2005")
	assert.Contains(t, out, "Global Undiscounted Cost")
	assert.Contains(t, out, "$75.0B")
	assert.Contains(t, out, "$56.0B")
	assert.Contains(t, out, "$45.0B")
}

func TestRatesAdjustmentEmitsDiscountChanged(t *testing.T) {
	m := NewRatesModel()
	m.SetSweep(testSweepResult(), dec(0.05), 2005)

	m, cmd := m.Update(keyPress(tea.KeyRight))
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.DiscountChangedMsg)
	require.True(t, ok)
	assert.True(t, msg.Rate.Equal(dec(0.055)), "rate should step up by half a point, got %s", msg.Rate)
	assert.Equal(t, 2005, msg.StartYear)

	// Down switches focus to the start-year slider.
	m, _ = m.Update(keyPress(tea.KeyDown))
	m, cmd = m.Update(keyPress(tea.KeyRight))
	require.NotNil(t, cmd)
	msg, ok = cmd().(tuimsg.DiscountChangedMsg)
	require.True(t, ok)
	assert.True(t, msg.Rate.Equal(dec(0.055)))
	assert.Equal(t, 2010, msg.StartYear)
}

func TestRatesShowsDeltaAgainstConfiguredSummary(t *testing.T) {
	m := NewRatesModel()
	m.SetSweep(testSweepResult(), dec(0.05), 2005)

	m.SetSummary(domain.PolicySummary{
		Regional: map[string]domain.RegionCost{
			"USA": {Undiscounted: dec(60000), Discounted: dec(42000)},
			"EU":  {Undiscounted: dec(15000), Discounted: dec(10000)},
		},
		GlobalCost:           dec(75000),
		GlobalDiscountedCost: dec(52000),
	})

	out := m.View()
	assert.Contains(t, out, "$52.0B")
	assert.Contains(t, out, "-$4.0B vs configured")
	assert.Contains(t, out, "-$3.0B")
	assert.Contains(t, out, "-$1.0B")
}

func TestSummaryViewWithoutSweep(t *testing.T) {
	m := NewSummaryModel()
	assert.Contains(t, m.View(), "No results to display")
}

func TestSummaryViewShowsCosts(t *testing.T) {
	m := NewSummaryModel()
	m.SetSweep(testSweepResult())

	out := m.View()
	assert.Contains(t, out, "Sweep Results")
	assert.Contains(t, out, "Scenario: reference")
	assert.Contains(t, out, "8f14e45f")
	assert.Contains(t, out, "$75.0B")
	assert.Contains(t, out, "$56.0B")
	assert.Contains(t, out, "5/5")
	assert.Contains(t, out, "Regional Policy Costs")
	assert.Contains(t, out, "80.0%")
	assert.Contains(t, out, "20.0%")
	assert.NotContains(t, out, "failed to solve")
}

func TestSummaryWarnsOnFailedTrials(t *testing.T) {
	result := testSweepResult()
	result.Success = false
	result.TrialSucceeded[2] = false

	m := NewSummaryModel()
	m.SetSweep(result)

	out := m.View()
	assert.Contains(t, out, "4/5")
	assert.Contains(t, out, "1 trial(s) failed to solve")
}

func TestSummaryHidesSkippedSweep(t *testing.T) {
	m := NewSummaryModel()
	m.SetSweep(&domain.SweepResult{Ran: false, Success: true})
	assert.Contains(t, m.View(), "No results to display")
}
