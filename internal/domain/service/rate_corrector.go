package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/valueobject"
)

// rateBand raises the rate to floor for scores strictly above minScore.
type rateBand struct {
	minScore int64
	floor    decimal.Decimal
}

// Ordered from the best band down; the first match wins.
var rateBands = []rateBand{
	{minScore: 50, floor: decimal.NewFromInt(8)},
	{minScore: 30, floor: decimal.NewFromInt(12)},
	{minScore: 10, floor: decimal.NewFromInt(16)},
}

// CorrectRate returns the lowest annual rate the score qualifies for, never
// below requested. Scores of 10 or less keep the requested rate.
func CorrectRate(score valueobject.CreditScore, requested decimal.Decimal) decimal.Decimal {
	for _, b := range rateBands {
		if score.Above(b.minScore) {
			return decimal.Max(requested, b.floor)
		}
	}
	return requested
}
