package output

import (
	"encoding/xml"

	"github.com/macgen/macgen/internal/curve"
	"github.com/macgen/macgen/internal/domain"
)

// XMLFormatter renders the cost curve document consumed by downstream
// reporting tools. Element names follow the established schema:
// CostCurvesInfo holds the per-period curve sets, the regional cost
// curves, the scalar costs by region, and the global totals.
type XMLFormatter struct{}

func (x XMLFormatter) Name() string { return "xml" }

type xmlDataPoint struct {
	X string `xml:"x"`
	Y string `xml:"y"`
}

type xmlCurve struct {
	Name   string         `xml:"name,attr"`
	Points []xmlDataPoint `xml:"DataPoint"`
}

type xmlCostCurves struct {
	Year   int        `xml:"year,attr"`
	Curves []xmlCurve `xml:"Curve"`
}

type xmlNamedCost struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type xmlCostCurvesInfo struct {
	XMLName              xml.Name        `xml:"CostCurvesInfo"`
	PeriodCostCurves     []xmlCostCurves `xml:"PeriodCostCurves>CostCurves"`
	RegionalCostCurves   []xmlCurve      `xml:"RegionalCostCurvesByPeriod>Curve"`
	UndiscountedCosts    []xmlNamedCost  `xml:"RegionalUndiscountedCosts>UndiscountedCost"`
	DiscountedCosts      []xmlNamedCost  `xml:"RegionalDiscountedCosts>DiscountedCost"`
	GlobalCost           string          `xml:"GlobalUndiscountedTotalCost"`
	GlobalDiscountedCost string          `xml:"GlobalDiscountedCost"`
}

func (x XMLFormatter) Format(result *domain.SweepResult) ([]byte, error) {
	if err := guardResult(result); err != nil {
		return nil, err
	}

	doc := xmlCostCurvesInfo{
		GlobalCost:           result.Summary.GlobalCost.String(),
		GlobalDiscountedCost: result.Summary.GlobalDiscountedCost.String(),
	}

	for p, regionCurves := range result.PeriodCurves {
		set := xmlCostCurves{Year: result.ModelTime.Periods[p].Year}
		for _, region := range regionCurves.Regions() {
			set.Curves = append(set.Curves, newXMLCurve(region, regionCurves[region]))
		}
		doc.PeriodCostCurves = append(doc.PeriodCostCurves, set)
	}

	for _, region := range result.RegionalCurves.Regions() {
		doc.RegionalCostCurves = append(doc.RegionalCostCurves,
			newXMLCurve(region, result.RegionalCurves[region]))
	}

	for _, region := range sortedRegions(result.Summary.Regional) {
		cost := result.Summary.Regional[region]
		doc.UndiscountedCosts = append(doc.UndiscountedCosts,
			xmlNamedCost{Name: region, Value: cost.Undiscounted.String()})
		doc.DiscountedCosts = append(doc.DiscountedCosts,
			xmlNamedCost{Name: region, Value: cost.Discounted.String()})
	}

	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

func newXMLCurve(name string, c *curve.Curve) xmlCurve {
	xc := xmlCurve{Name: name}
	for _, pt := range c.Points() {
		xc.Points = append(xc.Points, xmlDataPoint{X: pt.X.String(), Y: pt.Y.String()})
	}
	return xc
}
