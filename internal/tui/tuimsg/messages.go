// Package tuimsg defines the messages exchanged between the root TUI
// model and its scenes. Scenes emit and receive these without importing
// the root package, which keeps the dependency graph acyclic.
package tuimsg

import (
	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/domain"
	"github.com/macgen/macgen/internal/policycost"
)

// ConfigLoadedMsg signals the scenario configuration has been loaded.
type ConfigLoadedMsg struct {
	Config *config.Config
}

// ErrorMsg displays an error to the user.
type ErrorMsg struct {
	Err error
}

// SweepStartedMsg signals an abatement cost sweep has begun.
type SweepStartedMsg struct {
	ScenarioName string
	TotalTrials  int
}

// SweepPhaseMsg reports the sweep advancing to a new phase.
type SweepPhaseMsg struct {
	Phase policycost.Phase
}

// SweepTrialMsg reports one scaled-tax trial finishing.
type SweepTrialMsg struct {
	Trial  int
	Total  int
	Solved bool
}

// SweepCompleteMsg signals the sweep has finished. The calculator is
// carried along so completed results can be re-discounted interactively
// without another solve.
type SweepCompleteMsg struct {
	Result *domain.SweepResult
	Calc   *policycost.Calculator
	Err    error
}

// DiscountChangedMsg asks for a completed sweep to be re-aggregated
// under a different discount rate and start year.
type DiscountChangedMsg struct {
	Rate      decimal.Decimal
	StartYear int
}
