package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/emissions"
)

// InputParser handles parsing of input configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a configuration from a YAML file.
func (ip *InputParser) LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ValidateConfiguration validates the loaded configuration values.
// File syntax is yaml's concern; this checks the semantics the engine
// depends on.
func (ip *InputParser) ValidateConfiguration(cfg *Config) error {
	if err := ip.validateScenario(&cfg.Scenario); err != nil {
		return fmt.Errorf("scenario validation failed: %w", err)
	}
	if err := ip.validateOptions(cfg.Options); err != nil {
		return fmt.Errorf("options validation failed: %w", err)
	}
	return nil
}

func (ip *InputParser) validateScenario(sc *ScenarioConfig) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if err := sc.ModelTime().Validate(); err != nil {
		return fmt.Errorf("invalid period structure: %w", err)
	}
	if len(sc.Regions) == 0 {
		return fmt.Errorf("no regions provided")
	}

	seen := make(map[string]bool, len(sc.Regions))
	for i, region := range sc.Regions {
		if err := ip.validateRegion(i, &region, len(sc.Periods)); err != nil {
			return fmt.Errorf("region %d (%s) validation failed: %w", i, region.Name, err)
		}
		if seen[region.Name] {
			return fmt.Errorf("duplicate region name %q", region.Name)
		}
		seen[region.Name] = true
	}
	return nil
}

func (ip *InputParser) validateRegion(index int, region *RegionConfig, numPeriods int) error {
	if region.Name == "" {
		return fmt.Errorf("name is required")
	}
	if region.Name == domain.AggregateRegion {
		return fmt.Errorf("region name %q is reserved for the model-wide aggregate", domain.AggregateRegion)
	}
	if region.Intensity.IsNegative() {
		return fmt.Errorf("intensity must not be negative, got %s", region.Intensity.String())
	}
	if _, err := emissions.NewDriver(region.Driver); err != nil {
		return fmt.Errorf("invalid driver: %w", err)
	}

	one := decimal.NewFromInt(1)
	if region.Abatement.MaxShare.IsNegative() || region.Abatement.MaxShare.GreaterThan(one) {
		return fmt.Errorf("abatement max_share must be between 0 and 1, got %s", region.Abatement.MaxShare.String())
	}
	if region.Abatement.Responsiveness.IsNegative() {
		return fmt.Errorf("abatement responsiveness must not be negative, got %s", region.Abatement.Responsiveness.String())
	}

	for input, series := range region.Inputs {
		if len(series) != numPeriods {
			return fmt.Errorf("input %q has %d values, expected one per period (%d)", input, len(series), numPeriods)
		}
	}
	if len(region.Outputs) != 0 && len(region.Outputs) != numPeriods {
		return fmt.Errorf("outputs has %d values, expected one per period (%d)", len(region.Outputs), numPeriods)
	}
	if len(region.BaselineTax) != 0 && len(region.BaselineTax) != numPeriods {
		return fmt.Errorf("baseline_tax has %d values, expected one per period (%d)", len(region.BaselineTax), numPeriods)
	}
	for i, tax := range region.BaselineTax {
		if tax.IsNegative() {
			return fmt.Errorf("baseline_tax[%d] must not be negative, got %s", i, tax.String())
		}
	}
	return nil
}

func (ip *InputParser) validateOptions(opts Options) error {
	if raw, ok := opts[KeyNumPoints]; ok {
		points, err := cast.ToIntE(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", KeyNumPoints, err)
		}
		if points < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", KeyNumPoints, points)
		}
	}
	if raw, ok := opts[KeyDiscountRate]; ok {
		rate, err := cast.ToFloat64E(raw)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", KeyDiscountRate, err)
		}
		if rate < 0 || rate >= 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", KeyDiscountRate, rate)
		}
	}
	if raw, ok := opts[KeyDiscountStartYear]; ok {
		year, err := cast.ToIntE(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", KeyDiscountStartYear, err)
		}
		if year < 1 {
			return fmt.Errorf("%s must be a positive year, got %d", KeyDiscountStartYear, year)
		}
	}
	if raw, ok := opts[KeyAbatedGas]; ok {
		gas, err := cast.ToStringE(raw)
		if err != nil || gas == "" {
			return fmt.Errorf("%s must be a non-empty string", KeyAbatedGas)
		}
	}
	if raw, ok := opts[KeyMarketCheckRegion]; ok {
		region, err := cast.ToStringE(raw)
		if err != nil || region == "" {
			return fmt.Errorf("%s must be a non-empty string", KeyMarketCheckRegion)
		}
	}
	return nil
}
