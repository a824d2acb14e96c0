package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/macgen/macgen/internal/config"
	"github.com/macgen/macgen/internal/policycost"
	"github.com/macgen/macgen/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: dump_curves <config-file>")
		return
	}
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	scn, err := scenario.NewStylized(&cfg.Scenario, zap.NewNop())
	if err != nil {
		panic(err)
	}
	calc := policycost.NewCalculator(scn, policycost.Config{
		GasName:           cfg.Options.AbatedGas(),
		NumPoints:         cfg.Options.NumPoints(),
		DiscountRate:      cfg.Options.DiscountRate(),
		DiscountStartYear: cfg.Options.DiscountStartYear(),
		MarketCheckRegion: cfg.Options.MarketCheckRegion(),
	}, zap.NewNop())
	res, err := calc.CalculateAbatementCostCurve(context.Background())
	if err != nil {
		panic(err)
	}
	if !res.Ran {
		fmt.Println("no policy market; nothing to dump")
		return
	}

	// Fitted marginal abatement cost samples per period and region
	fmt.Println("period,year,region,reduction,tax")
	for pidx, curves := range res.PeriodCurves {
		year := res.ModelTime.Periods[pidx].Year
		for _, region := range curves.Regions() {
			for _, pt := range curves[region].Points() {
				fmt.Printf("%d,%d,%s,%s,%s\n",
					pidx, year, region, pt.X.StringFixed(4), pt.Y.StringFixed(4))
			}
		}
	}

	// Period costs (the area under each MAC curve) by region
	fmt.Println("\nregion,year,period_cost")
	for _, region := range res.RegionalCurves.Regions() {
		for _, pt := range res.RegionalCurves[region].Points() {
			fmt.Printf("%s,%s,%s\n", region, pt.X.StringFixed(0), pt.Y.StringFixed(2))
		}
	}

	// How the global present value moves with the discount rate
	fmt.Printf("\nGlobal undiscounted: %s\n", res.Summary.GlobalCost.StringFixed(2))
	configured := cfg.Options.DiscountRate()
	for _, rate := range []decimal.Decimal{decimal.Zero, configured, configured.Mul(decimal.NewFromInt(2))} {
		summary, err := calc.AggregateAt(res, rate, cfg.Options.DiscountStartYear())
		if err != nil {
			panic(err)
		}
		fmt.Printf("Rate %s: discounted=%s\n",
			rate.StringFixed(2), summary.GlobalDiscountedCost.StringFixed(2))
	}
}
