// Package scenario defines the boundary between the cost engine and
// the economic simulation it drives. The engine only ever talks to the
// Scenario interface; Stylized is the in-repo reference simulation
// behind it.
package scenario

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/domain"
)

// NoMarketPrice is the sentinel a price lookup returns when no market
// exists for the requested gas and region. Compare with Equal.
var NoMarketPrice = decimal.NewFromFloat(-1e15)

// Scenario is the simulation the cost engine re-solves per trial.
// Implementations carry mutable policy state: SetActiveTax replaces the
// tax schedule a subsequent RunSimulation solves under, so calls must
// not be interleaved concurrently.
type Scenario interface {
	// Name identifies the scenario in reports and logs.
	Name() string

	// ModelTime returns the period structure of the simulation.
	ModelTime() domain.ModelTime

	// MarketPrice returns the current price of gas in region at the
	// given period, or NoMarketPrice when no such market exists.
	MarketPrice(gas, region string, period int) decimal.Decimal

	// SetActiveTax installs a per-period tax schedule for gas in
	// region, replacing any previous schedule. Unknown regions are
	// ignored.
	SetActiveTax(gas, region string, taxesByPeriod []decimal.Decimal)

	// RunSimulation re-solves the model under the currently installed
	// taxes. outputTag labels the run for downstream traceability.
	// Returns false when the solve fails.
	RunSimulation(ctx context.Context, allPeriods bool, outputTag string) bool

	// EmissionsQuantityCurves returns, per region, the emissions of gas
	// by year as of the latest solve.
	EmissionsQuantityCurves(gas string) domain.RegionCurveMap

	// EmissionsPriceCurves returns, per region, the tax on gas by year
	// as of the latest solve.
	EmissionsPriceCurves(gas string) domain.RegionCurveMap
}
