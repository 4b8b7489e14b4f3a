// Package money holds the decimal conventions shared by every monetary and
// percentage value handled by the credit engine.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits persisted for amounts and rates.
const Scale = 2

var (
	// Hundred is the percent base.
	Hundred = decimal.NewFromInt(100)
	// LimitStep is the granularity approved limits are rounded up to.
	LimitStep = decimal.NewFromInt(100_000)
)

// Round rounds d to Scale places, half away from zero. For the non-negative
// amounts the engine deals with this is round-half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// CeilToStep rounds d up to the nearest multiple of step. A non-positive step
// returns d unchanged.
func CeilToStep(d, step decimal.Decimal) decimal.Decimal {
	if !step.IsPositive() {
		return d
	}
	return d.Div(step).Ceil().Mul(step)
}

// PercentOf returns pct percent of d.
func PercentOf(d, pct decimal.Decimal) decimal.Decimal {
	return d.Mul(pct).Div(Hundred)
}

// Clamp bounds d to the closed interval [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses a non-negative decimal string such as "100000.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return d, nil
}

// String formats d with exactly Scale fractional digits.
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
