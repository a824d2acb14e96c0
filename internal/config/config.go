package config

import (
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/emissions"
)

// Config is the top-level input file: the scenario definition driving
// the stylized simulation, plus the loosely-typed options bag the cost
// engine reads its knobs from.
type Config struct {
	Scenario ScenarioConfig `yaml:"scenario" json:"scenario"`
	Options  Options        `yaml:"options" json:"options"`
}

// ScenarioConfig describes the simulated world: the period structure
// and the regions with their activity, abatement response, and
// baseline tax schedules.
type ScenarioConfig struct {
	Name    string         `yaml:"name" json:"name"`
	Periods []PeriodConfig `yaml:"periods" json:"periods"`
	EndYear int            `yaml:"end_year" json:"end_year"`
	Regions []RegionConfig `yaml:"regions" json:"regions"`
}

// PeriodConfig maps a period index to its calendar year.
type PeriodConfig struct {
	Index int `yaml:"index" json:"index"`
	Year  int `yaml:"year" json:"year"`
}

// RegionConfig describes one region of the stylized simulation.
// Inputs, Outputs, and BaselineTax are per-period series aligned with
// the scenario's period list. An absent/empty BaselineTax means the
// region carries no tax policy.
type RegionConfig struct {
	Name        string                       `yaml:"name" json:"name"`
	Intensity   decimal.Decimal              `yaml:"intensity" json:"intensity"`
	Driver      emissions.DriverConfig       `yaml:"driver" json:"driver"`
	Inputs      map[string][]decimal.Decimal `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs     []decimal.Decimal            `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Abatement   AbatementConfig              `yaml:"abatement" json:"abatement"`
	BaselineTax []decimal.Decimal            `yaml:"baseline_tax,omitempty" json:"baseline_tax,omitempty"`
}

// AbatementConfig is the region's response to a tax: the maximum share
// of emissions that can be abated and how quickly rising taxes
// approach that maximum.
type AbatementConfig struct {
	MaxShare       decimal.Decimal `yaml:"max_share" json:"max_share"`
	Responsiveness decimal.Decimal `yaml:"responsiveness" json:"responsiveness"`
}

// ModelTime converts the configured period list into the domain form.
func (sc *ScenarioConfig) ModelTime() domain.ModelTime {
	periods := make([]domain.ModelPeriod, len(sc.Periods))
	for i, p := range sc.Periods {
		periods[i] = domain.ModelPeriod{Index: p.Index, Year: p.Year}
	}
	return domain.ModelTime{Periods: periods, EndYear: sc.EndYear}
}

// HasPolicy reports whether any region carries a baseline tax
// schedule; when none does, there is no policy market to analyze.
func (sc *ScenarioConfig) HasPolicy() bool {
	for _, r := range sc.Regions {
		if len(r.BaselineTax) > 0 {
			return true
		}
	}
	return false
}
