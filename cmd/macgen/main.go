package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/output"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/scenario"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newLogger builds the CLI logger: console-encoded zap on stderr so
// reports on stdout stay machine-readable. --verbose raises the level
// to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func mustLogger(verbose bool) *zap.Logger {
	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// buildCalculator assembles the stylized scenario and the cost curve
// calculator from a loaded configuration. The scenario constructor
// solves the baseline run, so the returned calculator is ready to
// sweep.
func buildCalculator(cfg *config.Config, logger *zap.Logger) (*policycost.Calculator, error) {
	scn, err := scenario.NewStylized(&cfg.Scenario, logger)
	if err != nil {
		return nil, fmt.Errorf("building scenario: %w", err)
	}

	calc := policycost.NewCalculator(scn, policycost.Config{
		GasName:           cfg.Options.AbatedGas(),
		NumPoints:         cfg.Options.NumPoints(),
		DiscountRate:      cfg.Options.DiscountRate(),
		DiscountStartYear: cfg.Options.DiscountStartYear(),
		MarketCheckRegion: cfg.Options.MarketCheckRegion(),
	}, logger)
	return calc, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "macgen %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "macgen",
	Short: "Marginal abatement cost curve engine",
	Long: `Computes the economic cost of an emissions tax policy by re-solving a
stylized simulation under scaled-down versions of the baseline tax,
fitting marginal abatement cost curves from the sampled trials, and
integrating them into discounted regional and global totals.`,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the abatement cost sweep for a scenario",
	Long: `Run the full abatement cost sweep: solve the scenario once per scaled
tax trial, fit marginal abatement cost curves per period and region,
and integrate them into regional and global policy costs.

Examples:
  macgen sweep --config scenario.yaml
  macgen sweep --config scenario.yaml --format json --output costs.json
  macgen sweep --config scenario.yaml --format csv
  macgen sweep --list-formats`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listFormats, _ := cmd.Flags().GetBool("list-formats")
		if listFormats {
			names := output.AvailableFormatterNames()
			aliases := output.AvailableFormatAliases()
			sort.Strings(aliases)
			fmt.Printf("Formats: %s\n", strings.Join(names, ", "))
			fmt.Printf("Aliases: %s\n", strings.Join(aliases, ", "))
			return
		}

		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			fmt.Fprintln(os.Stderr, "--config is required (or use --list-formats)")
			os.Exit(1)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := mustLogger(verbose)
		defer logger.Sync()

		cfg, err := config.NewInputParser().LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
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
			fmt.Printf("No %s policy market found in region %s; cost curve sweep skipped.\n",
				cfg.Options.AbatedGas(), cfg.Options.MarketCheckRegion())
			return
		}

		formatName, _ := cmd.Flags().GetString("format")
		formatter := output.GetFormatterByName(formatName)
		if formatter == nil {
			fmt.Fprintf(os.Stderr, "Unknown format %q (available: %s)\n",
				formatName, strings.Join(output.AvailableFormatterNames(), ", "))
			os.Exit(1)
		}

		data, err := formatter.Format(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting report: %v\n", err)
			os.Exit(1)
		}

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			fmt.Print(string(data))
			return
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", outputPath)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a scenario configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			fmt.Fprintln(os.Stderr, "--config is required")
			os.Exit(1)
		}

		cfg, err := config.NewInputParser().LoadFromFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Configuration file %s is valid\n", configPath)
		if !cfg.Scenario.HasPolicy() {
			fmt.Println("Note: no region carries a baseline tax, so a sweep on this file will be skipped.")
		}
	},
}

func init() {
	sweepCmd.Flags().StringP("config", "c", "", "Scenario configuration file (required)")
	sweepCmd.Flags().StringP("format", "f", "console", "Report format (console, console-lite, xml, csv, detailed-csv, json)")
	sweepCmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	sweepCmd.Flags().Bool("list-formats", false, "List available report formats and aliases")
	sweepCmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	validateCmd.Flags().StringP("config", "c", "", "Scenario configuration file (required)")

	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
