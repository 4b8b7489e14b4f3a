package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCreditScore_Clamps(t *testing.T) {
	assert.True(t, NewCreditScore(decimal.NewFromInt(-5)).Equal(CreditScoreZero))
	assert.True(t, NewCreditScore(decimal.NewFromInt(130)).Value().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "42.50", NewCreditScore(decimal.RequireFromString("42.5")).String())
}

func TestCreditScore_Int(t *testing.T) {
	assert.Equal(t, int64(50), CreditScoreNeutral.Int())
	assert.Equal(t, int64(43), NewCreditScore(decimal.RequireFromString("42.5")).Int())
	assert.Equal(t, int64(42), NewCreditScore(decimal.RequireFromString("42.49")).Int())
}

func TestCreditScore_Above(t *testing.T) {
	assert.False(t, CreditScoreNeutral.Above(50))
	assert.True(t, NewCreditScore(decimal.RequireFromString("50.01")).Above(50))
	assert.True(t, CreditScoreNeutral.Above(30))
}

func TestDecisionReason(t *testing.T) {
	r, err := NewDecisionReason("EMIs exceed 50% of monthly salary")
	assert.NoError(t, err)
	assert.True(t, r.Equal(DecisionReasonEMIExceedsIncome))
	assert.True(t, r.IsRejection())
	assert.Equal(t, "emi_exceeds_income", r.MetricLabel())

	assert.False(t, DecisionReasonApproved.IsRejection())
	assert.False(t, DecisionReason{}.IsRejection())

	_, err = NewDecisionReason("Customer not found")
	assert.Error(t, err)
}
