package output

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
)

// JSONFormatter renders the full sweep result, with the fitted curves
// expanded into point arrays.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonPoint struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
}

type jsonPeriodCurves struct {
	Year   int                    `json:"year"`
	Curves map[string][]jsonPoint `json:"curves"`
}

type jsonView struct {
	RunID              string                 `json:"runId"`
	ScenarioName       string                 `json:"scenarioName"`
	GasName            string                 `json:"gasName"`
	NumPoints          int                    `json:"numPoints"`
	Success            bool                   `json:"success"`
	TrialSucceeded     []bool                 `json:"trialSucceeded"`
	PeriodCostCurves   []jsonPeriodCurves     `json:"periodCostCurves"`
	RegionalCostCurves map[string][]jsonPoint `json:"regionalCostCurves"`
	Summary            domain.PolicySummary   `json:"summary"`
}

func (j JSONFormatter) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	view := jsonView{
		RunID:              result.RunID,
		ScenarioName:       result.ScenarioName,
		GasName:            result.GasName,
		NumPoints:          result.NumPoints,
		Success:            result.Success,
		TrialSucceeded:     result.TrialSucceeded,
		RegionalCostCurves: curveSetView(result.RegionalCurves),
		Summary:            result.Summary,
	}

	for p, regionCurves := range result.PeriodCurves {
		view.PeriodCostCurves = append(view.PeriodCostCurves, jsonPeriodCurves{
			Year:   result.ModelTime.Periods[p].Year,
			Curves: curveSetView(regionCurves),
		})
	}

	body, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

func curveSetView(curves domain.RegionCurveMap) map[string][]jsonPoint {
	view := make(map[string][]jsonPoint, len(curves))
	for region, c := range curves {
		view[region] = curvePoints(c)
	}
	return view
}

func curvePoints(c *curve.Curve) []jsonPoint {
	points := make([]jsonPoint, 0, c.Len())
	for _, pt := range c.Points() {
		points = append(points, jsonPoint{X: pt.X, Y: pt.Y})
	}
	return points
}
