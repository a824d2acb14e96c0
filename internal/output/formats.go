// Package output renders completed abatement-cost sweeps: a detailed
// or compact console report, a CostCurvesInfo XML document, summary
// and per-period CSV tables, and JSON. Formatters refuse results from
// sweeps that did not run, so an unconstrained model run never leaks
// empty cost output.
package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
)

// Conv1975To1990 converts 1975 model dollars to 1990 dollars for the
// tabular sinks.
var Conv1975To1990 = decimal.NewFromFloat(2.212)

// ErrNoCostOutput is returned when a formatter is handed a sweep that
// was skipped (no policy market) and therefore carries no cost data.
var ErrNoCostOutput = errors.New("sweep did not run, no cost output available")

// Formatter renders a completed sweep into a byte payload.
type Formatter interface {
	Name() string
	Format(result *domain.SweepResult) ([]byte, error)
}

// FormatterFunc adapts a function into a Formatter.
type FormatterFunc struct {
	ID string
	F  func(result *domain.SweepResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.SweepResult) ([]byte, error) {
	return f.F(result)
}

// guardResult rejects nil and not-ran results before any formatter
// touches curve data.
func guardResult(result *domain.SweepResult) error {
	if result == nil {
		return fmt.Errorf("nil sweep result")
	}
	if !result.Ran {
		return ErrNoCostOutput
	}
	return nil
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleLiteFormatter{},
	XMLFormatter{},
	CSVSummarizer{},
	DetailedCSVFormatter{},
	JSONFormatter{},
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"table":           "console",
	"lite":            "console-lite",
	"summary":         "console-lite",
}

// NormalizeFormatName lowercases a format name and resolves aliases.
func NormalizeFormatName(format string) string {
	name := strings.ToLower(strings.TrimSpace(format))
	if canonical, ok := formatAliases[name]; ok {
		return canonical
	}
	return name
}

// GetFormatterByName returns the formatter registered under the given
// name or alias, or nil when none matches.
func GetFormatterByName(format string) Formatter {
	name := NormalizeFormatName(format)
	for _, f := range formatters {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the registered canonical format names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted alias names.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	return aliases
}

// GenerateReport formats the result in the named format.
func GenerateReport(result *domain.SweepResult, format string) ([]byte, error) {
	formatter := GetFormatterByName(format)
	if formatter == nil {
		return nil, fmt.Errorf("unsupported format: %s (available: %s)",
			format, strings.Join(AvailableFormatterNames(), ", "))
	}
	return formatter.Format(result)
}

// WriteFormatted renders the result and writes it to a file named
// after the scenario, returning the filename.
func WriteFormatted(formatter Formatter, result *domain.SweepResult, extension string) (string, error) {
	data, err := formatter.Format(result)
	if err != nil {
		return "", err
	}

	name := strings.ReplaceAll(result.ScenarioName, " ", "_")
	if name == "" {
		name = result.RunID
	}
	filename := fmt.Sprintf("cost_curves_%s.%s", name, extension)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// FormatCost renders a cost value with two decimal places.
func FormatCost(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatCost1990 converts a 1975$ cost to 1990$ and renders it.
func FormatCost1990(amount decimal.Decimal) string {
	return amount.Mul(Conv1975To1990).StringFixed(2)
}
