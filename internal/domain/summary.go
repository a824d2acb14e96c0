package domain

import "github.com/shopspring/decimal"

// AggregateRegion is the reserved pseudo-region carrying model-wide
// aggregates. It receives period cost curves for reporting but is
// excluded from regional aggregation and from global summation.
const AggregateRegion = "global"

// RegionCost holds the scalar policy cost of one region.
type RegionCost struct {
	Undiscounted decimal.Decimal `json:"undiscounted"`
	Discounted   decimal.Decimal `json:"discounted"`
}

// PolicySummary holds per-region scalar costs plus the global totals
// summed over every region except AggregateRegion.
type PolicySummary struct {
	Regional             map[string]RegionCost `json:"regional"`
	GlobalCost           decimal.Decimal       `json:"globalCost"`
	GlobalDiscountedCost decimal.Decimal       `json:"globalDiscountedCost"`
}

// SweepResult is everything one abatement-cost sweep produces. Ran
// gates validity: when false (no policy market, sweep skipped) no
// curves or summary values are meaningful and no report may be
// generated from it.
type SweepResult struct {
	RunID        string    `json:"runId"`
	ScenarioName string    `json:"scenarioName"`
	GasName      string    `json:"gasName"`
	NumPoints    int       `json:"numPoints"`
	ModelTime    ModelTime `json:"modelTime"`

	Ran            bool   `json:"ran"`
	Success        bool   `json:"success"`
	TrialSucceeded []bool `json:"trialSucceeded"`

	Trials         TrialSet         `json:"-"`
	PeriodCurves   []RegionCurveMap `json:"-"`
	RegionalCurves RegionCurveMap   `json:"-"`
	Summary        PolicySummary    `json:"summary"`
}
