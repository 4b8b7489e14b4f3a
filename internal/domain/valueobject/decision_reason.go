package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DecisionReason – immutable value object
// ---------------------------------------------------------------------------

// DecisionReason is the user-facing outcome message of an eligibility
// decision. Only the values declared below exist.
type DecisionReason struct {
	value string
}

const (
	reasonApproved         = "Loan approved"
	reasonScoreTooLow      = "Credit score too low"
	reasonEMIExceedsIncome = "EMIs exceed 50% of monthly salary"
	reasonExceedsLimit     = "Loan amount exceeds approved limit"
)

var (
	DecisionReasonApproved         = DecisionReason{value: reasonApproved}
	DecisionReasonScoreTooLow      = DecisionReason{value: reasonScoreTooLow}
	DecisionReasonEMIExceedsIncome = DecisionReason{value: reasonEMIExceedsIncome}
	DecisionReasonExceedsLimit     = DecisionReason{value: reasonExceedsLimit}
)

var validDecisionReasons = map[string]DecisionReason{
	reasonApproved:         DecisionReasonApproved,
	reasonScoreTooLow:      DecisionReasonScoreTooLow,
	reasonEMIExceedsIncome: DecisionReasonEMIExceedsIncome,
	reasonExceedsLimit:     DecisionReasonExceedsLimit,
}

// NewDecisionReason creates a DecisionReason from a raw string.
func NewDecisionReason(s string) (DecisionReason, error) {
	v, ok := validDecisionReasons[s]
	if !ok {
		return DecisionReason{}, fmt.Errorf("invalid decision reason: %q", s)
	}
	return v, nil
}

// String returns the message.
func (r DecisionReason) String() string { return r.value }

// IsZero returns true if the reason has not been initialised.
func (r DecisionReason) IsZero() bool { return r.value == "" }

// Equal returns true when both reasons carry the same value.
func (r DecisionReason) Equal(other DecisionReason) bool { return r.value == other.value }

// IsRejection reports whether the reason denies the loan.
func (r DecisionReason) IsRejection() bool {
	return !r.IsZero() && !r.Equal(DecisionReasonApproved)
}

// MetricLabel is a short, stable identifier for metrics and logs.
func (r DecisionReason) MetricLabel() string {
	switch r.value {
	case reasonApproved:
		return "approved"
	case reasonScoreTooLow:
		return "score_too_low"
	case reasonEMIExceedsIncome:
		return "emi_exceeds_income"
	case reasonExceedsLimit:
		return "exceeds_limit"
	default:
		return "unknown"
	}
}
