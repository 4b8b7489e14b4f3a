package valueobject

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CreditScore – immutable value object
// ---------------------------------------------------------------------------

var (
	minCreditScore = decimal.Zero
	maxCreditScore = decimal.NewFromInt(100)
)

// CreditScore is a creditworthiness figure in the closed interval [0, 100].
// The exact decimal is kept so band boundaries compare without rounding.
type CreditScore struct {
	value decimal.Decimal
}

var (
	// CreditScoreZero is the hard-gate score of an overexposed customer.
	CreditScoreZero = CreditScore{value: decimal.Zero}
	// CreditScoreNeutral is the score of a customer without loan history.
	CreditScoreNeutral = CreditScore{value: decimal.NewFromInt(50)}
)

// NewCreditScore clamps v into [0, 100].
func NewCreditScore(v decimal.Decimal) CreditScore {
	if v.LessThan(minCreditScore) {
		return CreditScore{value: minCreditScore}
	}
	if v.GreaterThan(maxCreditScore) {
		return CreditScore{value: maxCreditScore}
	}
	return CreditScore{value: v}
}

// Value returns the exact score.
func (s CreditScore) Value() decimal.Decimal { return s.value }

// Int returns the score rounded half-up to a whole number, for display.
func (s CreditScore) Int() int64 { return s.value.Round(0).IntPart() }

// Above reports whether the score is strictly greater than threshold.
func (s CreditScore) Above(threshold int64) bool {
	return s.value.GreaterThan(decimal.NewFromInt(threshold))
}

// Equal returns true when both scores are numerically equal.
func (s CreditScore) Equal(other CreditScore) bool { return s.value.Equal(other.value) }

// String formats the score with two decimals.
func (s CreditScore) String() string { return s.value.StringFixed(2) }
