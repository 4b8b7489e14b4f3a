package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/valueobject"
	"github.com/bibbank/credit-engine/pkg/money"
)

const minApprovableScore = 10

var maxEMIShareOfIncome = decimal.RequireFromString("0.5")

// LoanRequest is a proposed, not yet created loan.
type LoanRequest struct {
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
}

// Validate rejects requests the engine cannot price.
func (r LoanRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return model.InvalidInputf("loan amount must be positive, got %s", r.Amount)
	}
	if !r.Amount.Equal(money.Round(r.Amount)) {
		return model.InvalidInputf("loan amount must have at most %d decimals, got %s", money.Scale, r.Amount)
	}
	if r.InterestRate.IsNegative() {
		return model.InvalidInputf("interest rate must not be negative, got %s", r.InterestRate)
	}
	if r.TenureMonths < 1 {
		return model.InvalidInputf("tenure must be at least one month, got %d", r.TenureMonths)
	}
	return nil
}

// Decision is the outcome of an eligibility evaluation. Installment is the
// payment at EffectiveRate and is populated on rejection too.
type Decision struct {
	Approved      bool
	Score         valueobject.CreditScore
	RequestedRate decimal.Decimal
	EffectiveRate decimal.Decimal
	Installment   decimal.Decimal
	Reason        valueobject.DecisionReason
}

// ---------------------------------------------------------------------------
// EligibilityEngine – approve/reject policy for new loans
// ---------------------------------------------------------------------------

// EligibilityEngine combines scoring, rate correction and installment pricing
// into a single approve/reject decision.
type EligibilityEngine struct {
	scorer *CreditScorer
}

// NewEligibilityEngine returns an engine scoring with scorer.
func NewEligibilityEngine(scorer *CreditScorer) *EligibilityEngine {
	return &EligibilityEngine{scorer: scorer}
}

// Decide evaluates req as a new loan on top of history. Checks run in a
// fixed order and the first failing one names the rejection.
func (e *EligibilityEngine) Decide(
	customer model.Customer,
	history model.LoanHistory,
	req LoanRequest,
	today time.Time,
) (Decision, error) {
	if err := req.Validate(); err != nil {
		return Decision{}, err
	}

	score := e.scorer.Score(customer, history, today)
	rate := CorrectRate(score, req.InterestRate)
	installment, err := model.ComputeInstallment(req.Amount, rate, req.TenureMonths)
	if err != nil {
		return Decision{}, err
	}

	d := Decision{
		Score:         score,
		RequestedRate: req.InterestRate,
		EffectiveRate: rate,
		Installment:   installment,
	}

	emiCap := customer.MonthlyIncome().Mul(maxEMIShareOfIncome)
	switch {
	case !score.Above(minApprovableScore):
		d.Reason = valueobject.DecisionReasonScoreTooLow
	case history.ActiveInstallments(today).Add(installment).GreaterThan(emiCap):
		d.Reason = valueobject.DecisionReasonEMIExceedsIncome
	case req.Amount.GreaterThan(customer.ApprovedLimit()):
		d.Reason = valueobject.DecisionReasonExceedsLimit
	default:
		d.Approved = true
		d.Reason = valueobject.DecisionReasonApproved
	}
	return d, nil
}
