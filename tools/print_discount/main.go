package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/macgen/macgen/internal/curve"
)

func main() {
	costs := sampleCostCurve()
	lo := decimal.NewFromInt(2005)
	hi := decimal.NewFromInt(2050)

	fmt.Println("Regional cost curve integration:")
	fmt.Printf("Integral [2005,2050]: %s\n", costs.Integral(lo, hi).StringFixed(2))
	for _, rate := range rates() {
		fmt.Printf("Discounted @ %s from 2005: %s\n",
			rate.StringFixed(2), costs.DiscountedValue(lo, hi, rate).StringFixed(2))
	}

	// The discounting grid anchors at the start year, not at the curve's
	// first sample, so moving the start year changes the distance every
	// slice is discounted over.
	rate := decimal.RequireFromString("0.05")
	fmt.Println("\nStart-year anchoring:")
	fmt.Printf("Discounted @ 0.05 from 2005: %s\n",
		costs.DiscountedValue(lo, hi, rate).StringFixed(2))
	fmt.Printf("Discounted @ 0.05 from 2020: %s\n",
		costs.DiscountedValue(decimal.NewFromInt(2020), hi, rate).StringFixed(2))

	// One flat year of cost 100 covering [2020,2021], anchored at 2005,
	// should come out to exactly 100 / 1.05^15.
	fmt.Println("\nFlat-curve cross check:")
	flat := curve.FromPoints([]curve.Point{pt(2020, 100), pt(2021, 100)})
	got := flat.DiscountedValue(lo, hi, rate)
	factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(15))
	want := decimal.NewFromInt(100).Div(factor)
	fmt.Printf("DiscountedValue: %s\n", got.StringFixed(6))
	fmt.Printf("Hand-computed:   %s\n", want.StringFixed(6))
}

func sampleCostCurve() *curve.Curve {
	return curve.FromPoints([]curve.Point{
		pt(2020, 0), pt(2025, 840), pt(2030, 1375), pt(2035, 1910),
	})
}

func rates() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.Zero,
		decimal.RequireFromString("0.03"),
		decimal.RequireFromString("0.05"),
		decimal.RequireFromString("0.10"),
	}
}

func pt(year, value int64) curve.Point {
	return curve.Point{X: decimal.NewFromInt(year), Y: decimal.NewFromInt(value)}
}
