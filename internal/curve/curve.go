// Package curve provides the piecewise-linear sample curves used for
// emissions trajectories, abatement cost curves, and regional cost
// aggregation. A curve owns its points exclusively; callers get copies.
package curve

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// UnboundedUpper is the integration bound used when a caller wants the
// area out to the end of whatever domain a curve actually covers.
var UnboundedUpper = decimal.NewFromFloat(math.MaxFloat64)

// Point is a single (x, y) sample.
type Point struct {
	X decimal.Decimal
	Y decimal.Decimal
}

// Curve is an ordered set of 2-D sample points interpreted as a
// piecewise-linear function. Points are kept sorted by X; X values are
// unique (adding a duplicate X replaces the existing Y).
type Curve struct {
	points []Point
}

// New creates an empty curve.
func New() *Curve {
	return &Curve{}
}

// FromPoints creates a curve from the given samples. Input order is
// irrelevant; the curve sorts by X and deduplicates (last one wins).
func FromPoints(points []Point) *Curve {
	c := New()
	for _, p := range points {
		c.AddPoint(p.X, p.Y)
	}
	return c
}

// AddPoint inserts a sample, keeping points sorted by X. An existing
// point with the same X is replaced.
func (c *Curve) AddPoint(x, y decimal.Decimal) {
	i := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].X.GreaterThanOrEqual(x)
	})
	if i < len(c.points) && c.points[i].X.Equal(x) {
		c.points[i].Y = y
		return
	}
	c.points = append(c.points, Point{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = Point{X: x, Y: y}
}

// Len returns the number of sample points.
func (c *Curve) Len() int {
	return len(c.points)
}

// Points returns a copy of the samples in ascending X order.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// MinX returns the smallest sampled X, or zero for an empty curve.
func (c *Curve) MinX() decimal.Decimal {
	if len(c.points) == 0 {
		return decimal.Zero
	}
	return c.points[0].X
}

// MaxX returns the largest sampled X, or zero for an empty curve.
func (c *Curve) MaxX() decimal.Decimal {
	if len(c.points) == 0 {
		return decimal.Zero
	}
	return c.points[len(c.points)-1].X
}

// Y evaluates the curve at x. Between samples the value is linearly
// interpolated; outside the sampled domain it clamps to the end values.
// An empty curve evaluates to zero.
func (c *Curve) Y(x decimal.Decimal) decimal.Decimal {
	if len(c.points) == 0 {
		return decimal.Zero
	}
	if x.LessThanOrEqual(c.points[0].X) {
		return c.points[0].Y
	}
	last := c.points[len(c.points)-1]
	if x.GreaterThanOrEqual(last.X) {
		return last.Y
	}
	i := sort.Search(len(c.points), func(i int) bool {
		return c.points[i].X.GreaterThan(x)
	})
	lo, hi := c.points[i-1], c.points[i]
	t := x.Sub(lo.X).Div(hi.X.Sub(lo.X))
	return lo.Y.Add(t.Mul(hi.Y.Sub(lo.Y)))
}

// Integral computes the definite integral over [lo, hi] by the
// trapezoid rule. The bounds are clamped to the sampled domain, with
// interpolated values at clamped edges; reversed bounds are swapped.
// Curves with fewer than two points integrate to zero.
func (c *Curve) Integral(lo, hi decimal.Decimal) decimal.Decimal {
	if len(c.points) < 2 {
		return decimal.Zero
	}
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	a := decimal.Max(lo, c.MinX())
	b := decimal.Min(hi, c.MaxX())
	if a.GreaterThanOrEqual(b) {
		return decimal.Zero
	}

	two := decimal.NewFromInt(2)
	total := decimal.Zero
	for i := 0; i < len(c.points)-1; i++ {
		s := decimal.Max(a, c.points[i].X)
		e := decimal.Min(b, c.points[i+1].X)
		if s.GreaterThanOrEqual(e) {
			continue
		}
		area := c.Y(s).Add(c.Y(e)).Div(two).Mul(e.Sub(s))
		total = total.Add(area)
	}
	return total
}

// DiscountedValue computes the integral over [lo, hi] with each
// whole-year slice discounted back to the year containing lo at the
// given rate. The discounting grid anchors at lo even when the curve's
// domain starts later, so costs far from the start year are discounted
// over the full distance. A zero rate reproduces Integral. The rate
// must be greater than -1.
func (c *Curve) DiscountedValue(lo, hi, rate decimal.Decimal) decimal.Decimal {
	if len(c.points) < 2 {
		return decimal.Zero
	}
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	a := decimal.Max(lo, c.MinX())
	b := decimal.Min(hi, c.MaxX())
	if a.GreaterThanOrEqual(b) {
		return decimal.Zero
	}

	base := decimal.NewFromInt(1).Add(rate)
	gridStart := lo.Floor()
	total := decimal.Zero
	sliceStart := a
	for offset := a.Floor().Sub(gridStart).IntPart(); sliceStart.LessThan(b); offset++ {
		sliceEnd := gridStart.Add(decimal.NewFromInt(offset + 1))
		if sliceEnd.GreaterThan(b) {
			sliceEnd = b
		}
		area := c.Integral(sliceStart, sliceEnd)
		factor := base.Pow(decimal.NewFromInt(offset))
		total = total.Add(area.Div(factor))
		sliceStart = sliceEnd
	}
	return total
}
