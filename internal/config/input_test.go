package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
scenario:
  name: "reference-policy"
  periods:
    - {index: 0, year: 2020}
    - {index: 1, year: 2025}
    - {index: 2, year: 2030}
  end_year: 2050
  regions:
    - name: "USA"
      intensity: 2.5
      driver:
        kind: input-driver
        input: energy
      inputs:
        energy: [100, 105, 110]
      abatement:
        max_share: 0.45
        responsiveness: 0.012
      baseline_tax: [0, 100, 150]
    - name: "EU"
      intensity: 1.8
      driver:
        kind: output-driver
      outputs: [50, 52, 55]
      abatement:
        max_share: 0.5
        responsiveness: 0.02
      baseline_tax: [0, 80, 120]

options:
  AbatedGasForCostCurves: "CO2"
  numPointsForCO2CostCurve: 5
  discountRate: 0.05
  discount-start-year: 2005
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFileValid(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeConfig(t, validConfigYAML))

	require.NoError(t, err, "valid config should load")
	require.NotNil(t, cfg)
	assert.Equal(t, "reference-policy", cfg.Scenario.Name)
	assert.Len(t, cfg.Scenario.Regions, 2)
	assert.Equal(t, 2050, cfg.Scenario.EndYear)
	assert.True(t, cfg.Scenario.Regions[0].Intensity.Equal(decimal.NewFromFloat(2.5)),
		"intensity should parse as decimal")
	assert.True(t, cfg.Scenario.Regions[0].BaselineTax[1].Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "energy", cfg.Scenario.Regions[0].Driver.Input)
	assert.True(t, cfg.Scenario.HasPolicy())
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile("nonexistent.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeConfig(t, "scenario: [unclosed"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			"missing scenario name",
			func(c *Config) { c.Scenario.Name = "" },
			"scenario name is required",
		},
		{
			"too few periods",
			func(c *Config) { c.Scenario.Periods = c.Scenario.Periods[:1] },
			"at least 2 periods",
		},
		{
			"non-contiguous period indexes",
			func(c *Config) { c.Scenario.Periods[1].Index = 5 },
			"expected 1",
		},
		{
			"end year before last period",
			func(c *Config) { c.Scenario.EndYear = 2024 },
			"end year",
		},
		{
			"no regions",
			func(c *Config) { c.Scenario.Regions = nil },
			"no regions provided",
		},
		{
			"duplicate region",
			func(c *Config) { c.Scenario.Regions[1].Name = "USA" },
			"duplicate region name",
		},
		{
			"reserved region name",
			func(c *Config) { c.Scenario.Regions[0].Name = "global" },
			"reserved",
		},
		{
			"negative intensity",
			func(c *Config) { c.Scenario.Regions[0].Intensity = decimal.NewFromInt(-1) },
			"intensity must not be negative",
		},
		{
			"bad driver kind",
			func(c *Config) { c.Scenario.Regions[0].Driver.Kind = "teleport-driver" },
			"invalid driver",
		},
		{
			"max share above one",
			func(c *Config) { c.Scenario.Regions[0].Abatement.MaxShare = decimal.NewFromInt(2) },
			"max_share must be between 0 and 1",
		},
		{
			"input series length mismatch",
			func(c *Config) {
				c.Scenario.Regions[0].Inputs["energy"] = []decimal.Decimal{decimal.NewFromInt(1)}
			},
			"expected one per period",
		},
		{
			"tax series length mismatch",
			func(c *Config) {
				c.Scenario.Regions[0].BaselineTax = c.Scenario.Regions[0].BaselineTax[:2]
			},
			"baseline_tax has 2 values",
		},
		{
			"negative tax",
			func(c *Config) {
				c.Scenario.Regions[0].BaselineTax[0] = decimal.NewFromInt(-5)
			},
			"must not be negative",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.LoadFromFile(writeConfig(t, validConfigYAML))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = parser.ValidateConfiguration(cfg)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOptionBounds(t *testing.T) {
	parser := NewInputParser()

	tests := []struct {
		name    string
		options Options
		wantErr string
	}{
		{"points below one", Options{KeyNumPoints: 0}, "at least 1"},
		{"points not an int", Options{KeyNumPoints: "five"}, "must be an integer"},
		{"rate out of range", Options{KeyDiscountRate: 1.5}, "between 0 and 1"},
		{"negative rate", Options{KeyDiscountRate: -0.1}, "between 0 and 1"},
		{"empty gas", Options{KeyAbatedGas: ""}, "non-empty"},
		{"bad start year", Options{KeyDiscountStartYear: -3}, "positive year"},
		{"empty market region", Options{KeyMarketCheckRegion: ""}, "non-empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.validateOptions(tt.options)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	assert.NoError(t, parser.validateOptions(Options{}), "empty options fall back to defaults")
}

func TestRegionWithoutPolicy(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	for i := range cfg.Scenario.Regions {
		cfg.Scenario.Regions[i].BaselineTax = nil
	}
	require.NoError(t, parser.ValidateConfiguration(cfg), "regions without taxes are valid")
	assert.False(t, cfg.Scenario.HasPolicy())
}

func TestModelTimeConversion(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	mt := cfg.Scenario.ModelTime()
	assert.Equal(t, 3, mt.NumPeriods())
	year, ok := mt.Year(1)
	assert.True(t, ok)
	assert.Equal(t, 2025, year)
	_, ok = mt.Year(7)
	assert.False(t, ok)
	assert.Equal(t, 2050, mt.EndYear)
}
