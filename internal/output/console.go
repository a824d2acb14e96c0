package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in the
// detailed console report.
var DefaultAssumptions = []string{
	"Costs are in millions of 1975 US$ unless marked 1990 US$ (x2.212)",
	"Period cost is the area under the fitted marginal abatement cost curve",
	"Regional cost integrates period costs across the model horizon",
	"Trial taxes scale the baseline policy uniformly across periods",
}

// ConsoleFormatter renders the full console report: run header,
// trial ledger, per-period regional cost table, and the cost summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "ABATEMENT COST ANALYSIS: %s\n", result.ScenarioName)
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "Gas: %s    Cost curve points: %d    Run: %s\n",
		result.GasName, result.NumPoints, result.RunID)
	solved := 0
	for _, ok := range result.TrialSucceeded {
		if ok {
			solved++
		}
	}
	fmt.Fprintf(&buf, "Trials solved: %d of %d", solved, len(result.TrialSucceeded))
	if !result.Success {
		fmt.Fprint(&buf, "  (INCOMPLETE: some trials failed to solve)")
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	c.writePeriodCostTable(&buf, result)
	writeCostSummary(&buf, result)

	return buf.Bytes(), nil
}

// writePeriodCostTable prints each region's period cost (the Y of its
// regional cost curve at every period year).
func (c ConsoleFormatter) writePeriodCostTable(buf *bytes.Buffer, result *domain.SweepResult) {
	regions := result.RegionalCurves.Regions()
	if len(regions) == 0 {
		return
	}

	fmt.Fprintln(buf, "PERIOD ABATEMENT COSTS BY REGION")
	fmt.Fprintln(buf, strings.Repeat("-", 16+14*len(result.ModelTime.Periods)))
	fmt.Fprintf(buf, "%-16s", "Region")
	for _, period := range result.ModelTime.Periods {
		fmt.Fprintf(buf, " %13d", period.Year)
	}
	fmt.Fprintln(buf)

	for _, region := range regions {
		curve := result.RegionalCurves[region]
		fmt.Fprintf(buf, "%-16s", region)
		for _, period := range result.ModelTime.Periods {
			year := decimal.NewFromInt(int64(period.Year))
			fmt.Fprintf(buf, " %13s", FormatCost(curve.Y(year)))
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)
}

// ConsoleLiteFormatter renders a compact summary: global totals and
// one line per region.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ABATEMENT COST SUMMARY: %s (%s)\n", result.ScenarioName, result.GasName)
	fmt.Fprintln(&buf, strings.Repeat("=", 50))
	writeCostSummary(&buf, result)
	return buf.Bytes(), nil
}

// writeCostSummary prints the per-region scalar costs and the global
// totals shared by both console formatters.
func writeCostSummary(buf *bytes.Buffer, result *domain.SweepResult) {
	fmt.Fprintln(buf, "REGIONAL POLICY COSTS")
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	fmt.Fprintf(buf, "%-16s %16s %16s\n", "Region", "Undiscounted", "Discounted")

	for _, region := range sortedRegions(result.Summary.Regional) {
		cost := result.Summary.Regional[region]
		fmt.Fprintf(buf, "%-16s %16s %16s\n",
			region, FormatCost(cost.Undiscounted), FormatCost(cost.Discounted))
	}
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	fmt.Fprintf(buf, "%-16s %16s %16s\n", "GLOBAL",
		FormatCost(result.Summary.GlobalCost),
		FormatCost(result.Summary.GlobalDiscountedCost))
	fmt.Fprintln(buf)
}

func sortedRegions(costs map[string]domain.RegionCost) []string {
	regions := make([]string, 0, len(costs))
	for region := range costs {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
