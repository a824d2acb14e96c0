package domain

import (
	"sort"

	"github.com/macgen/macgen/internal/curve"
)

// RegionCurveMap maps a region name to its exclusively-owned curve.
// Maps are value-owned and rebuilt per sweep; nothing holds a curve
// across sweeps.
type RegionCurveMap map[string]*curve.Curve

// Regions returns the region names in sorted order for deterministic
// iteration.
func (m RegionCurveMap) Regions() []string {
	regions := make([]string, 0, len(m))
	for name := range m {
		regions = append(regions, name)
	}
	sort.Strings(regions)
	return regions
}

// TrialSet holds the per-trial curve snapshots of one sweep: for each
// trial index 0..N, a region map of emissions-quantity curves and a
// region map of emissions-price curves. Slot N is the unmodified
// baseline; slot 0 is the zero-tax trial. Region key sets are expected
// to be identical across all slots and both maps.
type TrialSet struct {
	Quantity []RegionCurveMap `json:"-"`
	Price    []RegionCurveMap `json:"-"`
}

// NewTrialSet allocates slots for trials 0..n.
func NewTrialSet(n int) TrialSet {
	return TrialSet{
		Quantity: make([]RegionCurveMap, n+1),
		Price:    make([]RegionCurveMap, n+1),
	}
}

// Trials returns the number of allocated trial slots (N+1).
func (ts TrialSet) Trials() int {
	return len(ts.Quantity)
}

// BaselineRegions returns the sorted region names of the baseline
// (final) quantity slot, or nil when the set is empty.
func (ts TrialSet) BaselineRegions() []string {
	if len(ts.Quantity) == 0 {
		return nil
	}
	last := ts.Quantity[len(ts.Quantity)-1]
	if last == nil {
		return nil
	}
	return last.Regions()
}
