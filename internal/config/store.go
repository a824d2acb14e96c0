package config

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Option keys read by the cost engine. The names and defaults are part
// of the input-file contract and must not change.
const (
	KeyAbatedGas         = "AbatedGasForCostCurves"
	KeyNumPoints         = "numPointsForCO2CostCurve"
	KeyDiscountRate      = "discountRate"
	KeyDiscountStartYear = "discount-start-year"
	KeyMarketCheckRegion = "market-check-region"
)

// Defaults for the option keys.
const (
	DefaultAbatedGas         = "CO2"
	DefaultNumPoints         = 5
	DefaultDiscountStartYear = 2005
	DefaultMarketCheckRegion = "USA"
)

// DefaultDiscountRate is the discounting rate applied when the options
// bag carries none.
var DefaultDiscountRate = decimal.NewFromFloat(0.05)

// Options is the loosely-typed key/value bag of the input file. Values
// are read through typed getters that fall back to a default when the
// key is missing or not convertible; Validate surfaces bad values for
// the known keys at load time.
type Options map[string]interface{}

// GetString returns the string value for key, or def.
func (o Options) GetString(key, def string) string {
	raw, ok := o[key]
	if !ok {
		return def
	}
	value, err := cast.ToStringE(raw)
	if err != nil {
		return def
	}
	return value
}

// GetInt returns the int value for key, or def.
func (o Options) GetInt(key string, def int) int {
	raw, ok := o[key]
	if !ok {
		return def
	}
	value, err := cast.ToIntE(raw)
	if err != nil {
		return def
	}
	return value
}

// GetDecimal returns the decimal value for key, or def.
func (o Options) GetDecimal(key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := o[key]
	if !ok {
		return def
	}
	value, err := cast.ToFloat64E(raw)
	if err != nil {
		return def
	}
	return decimal.NewFromFloat(value)
}

// AbatedGas returns the gas whose policy cost is analyzed.
func (o Options) AbatedGas() string {
	return o.GetString(KeyAbatedGas, DefaultAbatedGas)
}

// NumPoints returns the number of intermediate cost-curve trials.
func (o Options) NumPoints() int {
	return o.GetInt(KeyNumPoints, DefaultNumPoints)
}

// DiscountRate returns the discounting rate for present-value cost.
func (o Options) DiscountRate() decimal.Decimal {
	return o.GetDecimal(KeyDiscountRate, DefaultDiscountRate)
}

// DiscountStartYear returns the lower integration bound for regional
// cost.
func (o Options) DiscountStartYear() int {
	return o.GetInt(KeyDiscountStartYear, DefaultDiscountStartYear)
}

// MarketCheckRegion returns the region probed for an active policy
// market.
func (o Options) MarketCheckRegion() string {
	return o.GetString(KeyMarketCheckRegion, DefaultMarketCheckRegion)
}
