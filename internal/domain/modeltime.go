package domain

import "fmt"

// ModelPeriod is one simulation period and the calendar year it maps to.
type ModelPeriod struct {
	Index int `json:"index"`
	Year  int `json:"year"`
}

// ModelTime is the ordered period structure of a model run plus the
// final year of the simulation horizon.
type ModelTime struct {
	Periods []ModelPeriod `json:"periods"`
	EndYear int           `json:"endYear"`
}

// NumPeriods returns the number of simulation periods.
func (mt ModelTime) NumPeriods() int {
	return len(mt.Periods)
}

// Year returns the calendar year for a period index.
func (mt ModelTime) Year(period int) (int, bool) {
	if period < 0 || period >= len(mt.Periods) {
		return 0, false
	}
	return mt.Periods[period].Year, true
}

// Validate checks that periods are contiguous from zero with strictly
// increasing years, and that the end year does not precede the last
// period.
func (mt ModelTime) Validate() error {
	if len(mt.Periods) < 2 {
		return fmt.Errorf("model time needs at least 2 periods, got %d", len(mt.Periods))
	}
	for i, p := range mt.Periods {
		if p.Index != i {
			return fmt.Errorf("period %d has index %d, expected %d", i, p.Index, i)
		}
		if i > 0 && p.Year <= mt.Periods[i-1].Year {
			return fmt.Errorf("period %d year %d does not increase past %d", i, p.Year, mt.Periods[i-1].Year)
		}
	}
	last := mt.Periods[len(mt.Periods)-1].Year
	if mt.EndYear < last {
		return fmt.Errorf("end year %d precedes last period year %d", mt.EndYear, last)
	}
	return nil
}
