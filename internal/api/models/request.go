package models

import "github.com/macgen/macgen/internal/config"

// SweepRequest is the body of POST /api/v1/sweeps: a scenario
// definition plus the engine options bag, the same shapes the YAML
// input file carries.
type SweepRequest struct {
	Scenario config.ScenarioConfig `json:"scenario" binding:"required"`
	Options  config.Options        `json:"options,omitempty"`
}
