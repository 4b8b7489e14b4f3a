package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// CreditScorer – domain service deriving a 0-100 score from loan history
// ---------------------------------------------------------------------------

// scoreStep maps counts up to and including maxCount to points.
type scoreStep struct {
	maxCount int
	points   int64
}

var (
	loanCountSteps = []scoreStep{
		{maxCount: 2, points: 15},
		{maxCount: 5, points: 10},
		{maxCount: 10, points: 5},
	}
	currentYearSteps = []scoreStep{
		{maxCount: 2, points: 15},
		{maxCount: 4, points: 10},
		{maxCount: 6, points: 5},
	}

	maxOnTimePoints = decimal.NewFromInt(35)
	maxVolumePoints = decimal.NewFromInt(35)
)

const scorePrecision = 28

// stepPoints returns the points of the first step whose bound covers count,
// or zero past the last step.
func stepPoints(steps []scoreStep, count int) decimal.Decimal {
	for _, s := range steps {
		if count <= s.maxCount {
			return decimal.NewFromInt(s.points)
		}
	}
	return decimal.Zero
}

// CreditScorer computes credit scores. It holds no state.
type CreditScorer struct{}

// NewCreditScorer returns a new scorer instance.
func NewCreditScorer() *CreditScorer {
	return &CreditScorer{}
}

// Score evaluates customer against the full history of their loans.
//
// Active principal above the approved limit is a hard gate scoring zero.
// A customer without loans scores the neutral 50. Otherwise the score is
// the sum of four bounded components:
//
//	on-time ratio     0-35  35 x paid / scheduled installments
//	loan count        0-15  <=2:15  <=5:10  <=10:5
//	current year      0-15  <=2:15  <=4:10  <=6:5
//	volume            0-35  35 - 35 x min(1, total principal / limit)
func (s *CreditScorer) Score(customer model.Customer, history model.LoanHistory, today time.Time) valueobject.CreditScore {
	if history.ActivePrincipal(today).GreaterThan(customer.ApprovedLimit()) {
		return valueobject.CreditScoreZero
	}
	if len(history) == 0 {
		return valueobject.CreditScoreNeutral
	}

	total := onTimePoints(history).
		Add(stepPoints(loanCountSteps, len(history))).
		Add(stepPoints(currentYearSteps, history.StartedInYear(today.Year()))).
		Add(volumePoints(history, customer.ApprovedLimit()))

	return valueobject.NewCreditScore(total)
}

func onTimePoints(history model.LoanHistory) decimal.Decimal {
	scheduled := history.TotalTenure()
	if scheduled == 0 {
		return decimal.Zero
	}
	ratio := decimal.NewFromInt(int64(history.TotalPaidOnTime())).
		DivRound(decimal.NewFromInt(int64(scheduled)), scorePrecision)
	return decimal.Min(maxOnTimePoints, maxOnTimePoints.Mul(ratio))
}

func volumePoints(history model.LoanHistory, approvedLimit decimal.Decimal) decimal.Decimal {
	ratio := decimal.NewFromInt(1)
	if approvedLimit.IsPositive() {
		ratio = decimal.Min(ratio, history.TotalPrincipal().DivRound(approvedLimit, scorePrecision))
	}
	return decimal.Max(decimal.Zero, maxVolumePoints.Sub(maxVolumePoints.Mul(ratio)))
}
