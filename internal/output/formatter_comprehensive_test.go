package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// sampleSweepResult builds a completed two-period sweep over USA and
// EU, with the aggregate region present in the period curves only.
func sampleSweepResult() *domain.SweepResult {
	mt := domain.ModelTime{
		Periods: []domain.ModelPeriod{{Index: 0, Year: 2020}, {Index: 1, Year: 2025}},
		EndYear: 2030,
	}

	result := &domain.SweepResult{
		RunID:          "run-123",
		ScenarioName:   "reference policy",
		GasName:        "CO2",
		NumPoints:      2,
		ModelTime:      mt,
		Ran:            true,
		Success:        true,
		TrialSucceeded: []bool{true, true, true},
		PeriodCurves:   make([]domain.RegionCurveMap, len(mt.Periods)),
		RegionalCurves: make(domain.RegionCurveMap),
		Summary: domain.PolicySummary{
			Regional: map[string]domain.RegionCost{
				"USA": {Undiscounted: dec(50000), Discounted: dec(30000)},
				"EU":  {Undiscounted: dec(25000), Discounted: dec(15000)},
			},
			GlobalCost:           dec(75000),
			GlobalDiscountedCost: dec(45000),
		},
	}

	peaks := map[string]int64{"USA": 100, "EU": 50, domain.AggregateRegion: 150}
	for p := range mt.Periods {
		curves := make(domain.RegionCurveMap, len(peaks))
		for region, peak := range peaks {
			mac := curve.New()
			mac.AddPoint(dec(-100), dec(0))
			mac.AddPoint(dec(0), dec(peak))
			curves[region] = mac
		}
		result.PeriodCurves[p] = curves
	}

	for region, level := range map[string]int64{"USA": 5000, "EU": 2500} {
		rc := curve.New()
		rc.AddPoint(dec(2020), dec(level))
		rc.AddPoint(dec(2025), dec(level))
		result.RegionalCurves[region] = rc
	}

	return result
}

func TestFormatterRegistry(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"console", "console-lite", "xml", "csv", "detailed-csv", "json"},
		AvailableFormatterNames())
	assert.ElementsMatch(t,
		[]string{"verbose", "console-verbose", "table", "lite", "summary"},
		AvailableFormatAliases())

	for _, name := range AvailableFormatterNames() {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, name, f.Name())
	}
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestNormalizeFormatName(t *testing.T) {
	cases := map[string]string{
		"Console":         "console",
		"  JSON ":         "json",
		"verbose":         "console",
		"console-verbose": "console",
		"table":           "console",
		"lite":            "console-lite",
		"summary":         "console-lite",
		"detailed-csv":    "detailed-csv",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeFormatName(input), input)
	}

	verbose := GetFormatterByName("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "console", verbose.Name())
}

func TestFormattersRequireCompletedSweep(t *testing.T) {
	skipped := &domain.SweepResult{Ran: false, Success: true}
	for _, name := range AvailableFormatterNames() {
		f := GetFormatterByName(name)

		_, err := f.Format(skipped)
		assert.ErrorIs(t, err, ErrNoCostOutput, name)

		_, err = f.Format(nil)
		assert.Error(t, err, name)
	}
}

func TestConsoleFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleSweepResult())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "ABATEMENT COST ANALYSIS: reference policy")
	assert.Contains(t, text, "Gas: CO2")
	assert.Contains(t, text, "Trials solved: 3 of 3")
	assert.NotContains(t, text, "INCOMPLETE")
	assert.Contains(t, text, "KEY ASSUMPTIONS:")
	assert.Contains(t, text, "PERIOD ABATEMENT COSTS BY REGION")
	assert.Contains(t, text, "2500.00")
	assert.Contains(t, text, "REGIONAL POLICY COSTS")
	assert.Contains(t, text, "50000.00")
	assert.Contains(t, text, "GLOBAL")
	assert.Contains(t, text, "75000.00")
}

func TestConsoleFormatterFlagsFailedTrials(t *testing.T) {
	result := sampleSweepResult()
	result.Success = false
	result.TrialSucceeded[1] = false

	out, err := ConsoleFormatter{}.Format(result)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Trials solved: 2 of 3")
	assert.Contains(t, string(out), "INCOMPLETE")
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleLiteFormatter{}.Format(sampleSweepResult())
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "ABATEMENT COST SUMMARY: reference policy (CO2)")
	assert.Contains(t, text, "REGIONAL POLICY COSTS")
	assert.Contains(t, text, "30000.00")
	assert.NotContains(t, text, "KEY ASSUMPTIONS")
	assert.NotContains(t, text, "PERIOD ABATEMENT COSTS")
}

func TestXMLFormatter(t *testing.T) {
	out, err := XMLFormatter{}.Format(sampleSweepResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), xml.Header))

	var doc xmlCostCurvesInfo
	require.NoError(t, xml.Unmarshal(out, &doc))

	require.Len(t, doc.PeriodCostCurves, 2)
	assert.Equal(t, 2020, doc.PeriodCostCurves[0].Year)
	assert.Equal(t, 2025, doc.PeriodCostCurves[1].Year)

	// Period curves carry the aggregate region for reporting.
	require.Len(t, doc.PeriodCostCurves[0].Curves, 3)
	assert.Equal(t, domain.AggregateRegion, doc.PeriodCostCurves[0].Curves[2].Name)
	eu := doc.PeriodCostCurves[0].Curves[0]
	assert.Equal(t, "EU", eu.Name)
	require.Len(t, eu.Points, 2)
	assert.Equal(t, "-100", eu.Points[0].X)
	assert.Equal(t, "0", eu.Points[0].Y)
	assert.Equal(t, "50", eu.Points[1].Y)

	// Regional curves and scalar costs exclude the aggregate region.
	require.Len(t, doc.RegionalCostCurves, 2)
	assert.Equal(t, "EU", doc.RegionalCostCurves[0].Name)
	assert.Equal(t, "USA", doc.RegionalCostCurves[1].Name)

	require.Len(t, doc.UndiscountedCosts, 2)
	assert.Equal(t, "USA", doc.UndiscountedCosts[1].Name)
	assert.Equal(t, "50000", doc.UndiscountedCosts[1].Value)
	require.Len(t, doc.DiscountedCosts, 2)
	assert.Equal(t, "15000", doc.DiscountedCosts[0].Value)

	assert.Equal(t, "75000", doc.GlobalCost)
	assert.Equal(t, "45000", doc.GlobalDiscountedCost)
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(sampleSweepResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"region", "undiscounted_cost", "discounted_cost",
		"undiscounted_cost_1990usd", "discounted_cost_1990usd"}, rows[0])
	assert.Equal(t, []string{"EU", "25000.00", "15000.00", "55300.00", "33180.00"}, rows[1])
	assert.Equal(t, []string{"USA", "50000.00", "30000.00", "110600.00", "66360.00"}, rows[2])
	assert.Equal(t, []string{"Global", "75000.00", "45000.00", "165900.00", "99540.00"}, rows[3])
}

func TestDetailedCSVFormatter(t *testing.T) {
	out, err := DetailedCSVFormatter{}.Format(sampleSweepResult())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	// Header, two regions times two periods, then two totals per region.
	require.Len(t, rows, 9)

	assert.Equal(t, []string{"region", "variable", "year", "value", "units"}, rows[0])
	assert.Equal(t, []string{"EU", "PolicyCostUndisc", "2020", "5530.00", "(millions)90US$"}, rows[1])
	assert.Equal(t, []string{"EU", "PolicyCostUndisc", "2025", "5530.00", "(millions)90US$"}, rows[2])
	assert.Equal(t, []string{"USA", "PolicyCostUndisc", "2020", "11060.00", "(millions)90US$"}, rows[3])
	assert.Equal(t, []string{"EU", "PolicyCostTotalUndisc", "AllYears", "55300.00", "(millions)90US$"}, rows[5])
	assert.Equal(t, []string{"USA", "PolicyCostTotalDisc", "AllYears", "66360.00", "(millions)90US$"}, rows[8])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(sampleSweepResult())
	require.NoError(t, err)

	var view jsonView
	require.NoError(t, json.Unmarshal(out, &view))

	assert.Equal(t, "run-123", view.RunID)
	assert.Equal(t, "reference policy", view.ScenarioName)
	assert.Equal(t, "CO2", view.GasName)
	assert.Equal(t, []bool{true, true, true}, view.TrialSucceeded)

	require.Len(t, view.PeriodCostCurves, 2)
	assert.Equal(t, 2020, view.PeriodCostCurves[0].Year)
	assert.Contains(t, view.PeriodCostCurves[0].Curves, domain.AggregateRegion)

	require.Contains(t, view.RegionalCostCurves, "USA")
	assert.NotContains(t, view.RegionalCostCurves, domain.AggregateRegion)
	require.Len(t, view.RegionalCostCurves["USA"], 2)
	assert.True(t, view.RegionalCostCurves["USA"][1].Y.Equal(dec(5000)))

	assert.True(t, view.Summary.GlobalCost.Equal(dec(75000)))
	assert.True(t, view.Summary.GlobalDiscountedCost.Equal(dec(45000)))
	assert.True(t, view.Summary.Regional["EU"].Discounted.Equal(dec(15000)))
}

func TestGenerateReport(t *testing.T) {
	result := sampleSweepResult()

	out, err := GenerateReport(result, "summary")
	require.NoError(t, err)
	assert.Contains(t, string(out), "ABATEMENT COST SUMMARY")

	_, err = GenerateReport(result, "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format: pdf")
	assert.Contains(t, err.Error(), "console")
}

func TestWriteFormatted(t *testing.T) {
	origDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	require.NoError(t, os.Chdir(t.TempDir()))

	result := sampleSweepResult()
	filename, err := WriteFormatted(JSONFormatter{}, result, "json")
	require.NoError(t, err)
	assert.Equal(t, "cost_curves_reference_policy.json", filename)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"runId": "run-123"`)

	result.ScenarioName = ""
	filename, err = WriteFormatted(XMLFormatter{}, result, "xml")
	require.NoError(t, err)
	assert.Equal(t, "cost_curves_run-123.xml", filename)

	skipped := &domain.SweepResult{ScenarioName: "base", Ran: false}
	_, err = WriteFormatted(ConsoleFormatter{}, skipped, "txt")
	assert.ErrorIs(t, err, ErrNoCostOutput)
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "stub", F: func(result *domain.SweepResult) ([]byte, error) {
		if err := guardResult(result); err != nil {
			return nil, err
		}
		return []byte(result.RunID), nil
	}}

	assert.Equal(t, "stub", f.Name())
	out, err := f.Format(sampleSweepResult())
	require.NoError(t, err)
	assert.Equal(t, "run-123", string(out))

	_, err = f.Format(nil)
	assert.Error(t, err)
}

func TestCostFormatting(t *testing.T) {
	assert.Equal(t, "1234.50", FormatCost(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "2212.00", FormatCost1990(dec(1000)))
}
