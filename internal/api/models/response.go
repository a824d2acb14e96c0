package models

import "github.com/shopspring/decimal"

// Sweep statuses reported by the API.
const (
	StatusCompleted = "completed"
	StatusSkipped   = "skipped"
)

// SweepResponse summarizes a finished sweep. Skipped sweeps carry no
// id and no summary; there is nothing to fetch for them.
type SweepResponse struct {
	ID           string       `json:"id,omitempty"`
	Status       string       `json:"status"`
	Scenario     string       `json:"scenario"`
	Gas          string       `json:"gas"`
	TrialsSolved int          `json:"trials_solved"`
	TrialCount   int          `json:"trial_count"`
	Success      bool         `json:"success"`
	Summary      *CostSummary `json:"summary,omitempty"`
}

// CostSummary carries the aggregated policy costs.
type CostSummary struct {
	Regional             map[string]RegionCost `json:"regional"`
	GlobalCost           decimal.Decimal       `json:"global_cost"`
	GlobalDiscountedCost decimal.Decimal       `json:"global_discounted_cost"`
}

// RegionCost is one region's total policy cost.
type RegionCost struct {
	Undiscounted decimal.Decimal `json:"undiscounted"`
	Discounted   decimal.Decimal `json:"discounted"`
}

// FormatsResponse lists the report formats the result endpoint accepts.
type FormatsResponse struct {
	Formats []string `json:"formats"`
	Aliases []string `json:"aliases"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
