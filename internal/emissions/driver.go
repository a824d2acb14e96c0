// Package emissions provides the activity drivers that determine the
// pre-abatement emissions level of a region. A driver is selected by a
// configuration tag when the scenario is built; the set of kinds is
// closed, so an unknown tag is rejected at the configuration boundary
// instead of surfacing later inside a sweep.
package emissions

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Driver kind tags accepted in configuration.
const (
	KindInput  = "input-driver"
	KindOutput = "output-driver"
)

// Activity is the lookup surface a driver reads activity levels from.
type Activity interface {
	// PhysicalDemand returns the demand for a named input at a period.
	PhysicalDemand(input string, period int) (decimal.Decimal, bool)
	// PhysicalOutput returns the primary output level at a period.
	PhysicalOutput(period int) (decimal.Decimal, bool)
}

// Driver computes the activity level that scales a region's emissions
// at a given period.
type Driver interface {
	Level(act Activity, period int) decimal.Decimal
	Kind() string
}

// DriverConfig is the parsed configuration of a driver.
// Kind selects the variant; Input names the demanded input and is only
// meaningful for input-driver.
type DriverConfig struct {
	Kind  string `yaml:"kind" json:"kind"`
	Input string `yaml:"input,omitempty" json:"input,omitempty"`
}

// NewDriver builds the driver variant named by the configuration tag.
func NewDriver(cfg DriverConfig) (Driver, error) {
	switch cfg.Kind {
	case KindInput:
		if cfg.Input == "" {
			return nil, fmt.Errorf("input-driver requires an input name")
		}
		return InputDriver{InputName: cfg.Input}, nil
	case KindOutput:
		return OutputDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown emissions driver kind %q", cfg.Kind)
	}
}

// InputDriver reads the physical demand of one named input. A missing
// input reads as zero demand.
type InputDriver struct {
	InputName string
}

// Level returns the demand for the driver's input at the period.
func (d InputDriver) Level(act Activity, period int) decimal.Decimal {
	demand, ok := act.PhysicalDemand(d.InputName, period)
	if !ok {
		return decimal.Zero
	}
	return demand
}

// Kind returns the configuration tag of the variant.
func (d InputDriver) Kind() string {
	return KindInput
}

// OutputDriver reads the primary physical output. A region with no
// output series reads as zero activity.
type OutputDriver struct{}

// Level returns the primary output level at the period.
func (d OutputDriver) Level(act Activity, period int) decimal.Decimal {
	output, ok := act.PhysicalOutput(period)
	if !ok {
		return decimal.Zero
	}
	return output
}

// Kind returns the configuration tag of the variant.
func (d OutputDriver) Kind() string {
	return KindOutput
}
