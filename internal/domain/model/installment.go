package model

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/pkg/money"
)

// ratePrecision bounds the fractional digits carried through the compound
// factor before the final rounding to cents.
const ratePrecision = 28

var monthlyRateDivisor = decimal.NewFromInt(1200)

// ComputeInstallment returns the fixed monthly installment (EMI) for a loan.
//
//	r = annualRatePercent / 1200
//	installment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate, or a compound factor indistinguishable from one, falls back to
// straight-line P / n. The result is rounded half-up to two places.
func ComputeInstallment(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.IsNegative() {
		return decimal.Zero, InvalidInputf("principal must not be negative, got %s", principal)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, InvalidInputf("interest rate must not be negative, got %s", annualRatePercent)
	}
	if tenureMonths < 1 {
		return decimal.Zero, InvalidInputf("tenure must be at least one month, got %d", tenureMonths)
	}

	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return money.Round(principal.Div(n)), nil
	}

	r := annualRatePercent.DivRound(monthlyRateDivisor, ratePrecision)
	factor := compound(decimal.NewFromInt(1).Add(r), tenureMonths)
	denominator := factor.Sub(decimal.NewFromInt(1))
	if denominator.IsZero() {
		return money.Round(principal.Div(n)), nil
	}

	numerator := principal.Mul(r).Mul(factor)
	return money.Round(numerator.DivRound(denominator, ratePrecision)), nil
}

// compound raises base to n by squaring, rounding every product to
// ratePrecision places so the digit count stays bounded.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(ratePrecision)
		}
		base = base.Mul(base).Round(ratePrecision)
		n >>= 1
	}
	return result
}
