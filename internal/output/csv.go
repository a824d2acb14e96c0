package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
)

const costUnits1990 = "(millions)90US$"

// CSVSummarizer renders one row per region with undiscounted and
// discounted policy costs in both 1975 and 1990 dollars.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"region", "undiscounted_cost", "discounted_cost",
		"undiscounted_cost_1990usd", "discounted_cost_1990usd"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, region := range sortedRegions(result.Summary.Regional) {
		cost := result.Summary.Regional[region]
		row := []string{
			region,
			FormatCost(cost.Undiscounted),
			FormatCost(cost.Discounted),
			FormatCost1990(cost.Undiscounted),
			FormatCost1990(cost.Discounted),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	global := []string{
		"Global",
		FormatCost(result.Summary.GlobalCost),
		FormatCost(result.Summary.GlobalDiscountedCost),
		FormatCost1990(result.Summary.GlobalCost),
		FormatCost1990(result.Summary.GlobalDiscountedCost),
	}
	if err := w.Write(global); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetailedCSVFormatter renders the long-form cost series: per-region
// period costs followed by the regional totals, all converted to 1990
// dollars. Variable names match the legacy database series.
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"region", "variable", "year", "value", "units"}); err != nil {
		return nil, err
	}

	for _, region := range result.RegionalCurves.Regions() {
		rc := result.RegionalCurves[region]
		for _, period := range result.ModelTime.Periods {
			year := decimal.NewFromInt(int64(period.Year))
			row := []string{region, "PolicyCostUndisc", strconv.Itoa(period.Year),
				FormatCost1990(rc.Y(year)), costUnits1990}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	regions := sortedRegions(result.Summary.Regional)
	for _, region := range regions {
		row := []string{region, "PolicyCostTotalUndisc", "AllYears",
			FormatCost1990(result.Summary.Regional[region].Undiscounted), costUnits1990}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, region := range regions {
		row := []string{region, "PolicyCostTotalDisc", "AllYears",
			FormatCost1990(result.Summary.Regional[region].Discounted), costUnits1990}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
