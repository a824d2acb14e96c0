package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/output"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Re-discount a sweep's policy costs under alternative rates",
	Long: `Run the abatement cost sweep once, then recompute the regional
aggregation under each requested discount rate. The trial and period
curves are reused, so no extra simulation runs are needed.

Examples:
  macgen rates --config scenario.yaml --rates 0.03,0.05,0.07
  macgen rates --config scenario.yaml --rates 0.05 --start-year 2010
  macgen rates --config scenario.yaml --rates 0.02,0.04 --regions`,
	Args: cobra.NoArgs,
	Run:  runRatesAnalysis,
}

var (
	ratesConfigPath  string
	ratesList        string
	ratesStartYear   int
	ratesShowRegions bool
	ratesVerbose     bool
)

func init() {
	ratesCmd.Flags().StringVarP(&ratesConfigPath, "config", "c", "", "Scenario configuration file (required)")
	ratesCmd.Flags().StringVar(&ratesList, "rates", "", "Comma-separated discount rates to evaluate (required)")
	ratesCmd.Flags().IntVar(&ratesStartYear, "start-year", 0, "Discounting start year (default: value from the configuration)")
	ratesCmd.Flags().BoolVar(&ratesShowRegions, "regions", false, "Include the per-region cost breakdown for each rate")
	ratesCmd.Flags().BoolVarP(&ratesVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(ratesCmd)
}

func runRatesAnalysis(cmd *cobra.Command, args []string) {
	if ratesConfigPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		os.Exit(1)
	}

	rates, err := parseRateList(ratesList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rates: %v\n", err)
		os.Exit(1)
	}

	logger := mustLogger(ratesVerbose)
	defer logger.Sync()

	cfg, err := config.NewInputParser().LoadFromFile(ratesConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	startYear := ratesStartYear
	if startYear == 0 {
		startYear = cfg.Options.DiscountStartYear()
	}

	calc, err := buildCalculator(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := calc.CalculateAbatementCostCurve(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sweep failed: %v\n", err)
		os.Exit(1)
	}

	if !result.Ran {
		fmt.Printf("No %s policy market found in region %s; nothing to re-discount.\n",
			cfg.Options.AbatedGas(), cfg.Options.MarketCheckRegion())
		return
	}

	summaries := make([]domain.PolicySummary, len(rates))
	for i, rate := range rates {
		summaries[i], err = calc.AggregateAt(result, rate, startYear)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error re-aggregating at rate %s: %v\n", rate.String(), err)
			os.Exit(1)
		}
	}

	fmt.Println("DISCOUNT RATE SENSITIVITY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Scenario: %s    Gas: %s    Start year: %d\n\n",
		result.ScenarioName, result.GasName, startYear)

	fmt.Printf("%-10s %20s %20s\n", "Rate", "Global Cost", "Discounted Cost")
	fmt.Println(strings.Repeat("-", 52))
	for i, rate := range rates {
		fmt.Printf("%-10s %20s %20s\n",
			formatRatePercent(rate),
			output.FormatCost(summaries[i].GlobalCost),
			output.FormatCost(summaries[i].GlobalDiscountedCost))
	}
	fmt.Println()

	if ratesShowRegions {
		for i, rate := range rates {
			fmt.Printf("REGIONAL COSTS AT %s\n", formatRatePercent(rate))
			fmt.Println(strings.Repeat("-", 52))
			for _, region := range summaryRegions(summaries[i]) {
				cost := summaries[i].Regional[region]
				fmt.Printf("%-16s %16s %16s\n",
					region, output.FormatCost(cost.Undiscounted), output.FormatCost(cost.Discounted))
			}
			fmt.Println()
		}
	}

	fmt.Println("Costs are in millions of 1975 US$.")
	fmt.Println("Undiscounted cost does not vary with the rate; only the present value does.")
}

// parseRateList parses a comma-separated list of discount rates.
func parseRateList(raw string) ([]decimal.Decimal, error) {
	parts := strings.Split(raw, ",")
	rates := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rate, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q: %w", part, err)
		}
		if rate.LessThanOrEqual(decimal.NewFromInt(-1)) {
			return nil, fmt.Errorf("rate %s must be greater than -1", rate.String())
		}
		rates = append(rates, rate)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates provided (expected a comma-separated list like 0.03,0.05)")
	}
	return rates, nil
}

func formatRatePercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

func summaryRegions(summary domain.PolicySummary) []string {
	regions := make([]string, 0, len(summary.Regional))
	for region := range summary.Regional {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}
