package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const (
	aggregateCustomer = "Customer"
	aggregateLoan     = "Loan"
)

// ---------------------------------------------------------------------------
// Customer Events
// ---------------------------------------------------------------------------

// CustomerRegistered is raised when a new customer is onboarded.
type CustomerRegistered struct {
	events.BaseEvent
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
}

func NewCustomerRegistered(
	customerID uuid.UUID, firstName, lastName string,
	monthlyIncome, approvedLimit decimal.Decimal, now time.Time,
) CustomerRegistered {
	return CustomerRegistered{
		BaseEvent:     events.NewBaseEvent("credit.customer.registered", customerID, aggregateCustomer, now),
		FirstName:     firstName,
		LastName:      lastName,
		MonthlyIncome: monthlyIncome,
		ApprovedLimit: approvedLimit,
	}
}

// CustomerDebtRecalculated is raised when a customer's current debt is
// recomputed from the active loan set.
type CustomerDebtRecalculated struct {
	events.BaseEvent
	PreviousDebt decimal.Decimal `json:"previous_debt"`
	CurrentDebt  decimal.Decimal `json:"current_debt"`
}

func NewCustomerDebtRecalculated(customerID uuid.UUID, previous, current decimal.Decimal, now time.Time) CustomerDebtRecalculated {
	return CustomerDebtRecalculated{
		BaseEvent:    events.NewBaseEvent("credit.customer.debt_recalculated", customerID, aggregateCustomer, now),
		PreviousDebt: previous,
		CurrentDebt:  current,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanApproved is raised when an eligible loan is materialised.
type LoanApproved struct {
	events.BaseEvent
	CustomerID         uuid.UUID       `json:"customer_id"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	TenureMonths       int             `json:"tenure_months"`
}

func NewLoanApproved(
	loanID, customerID uuid.UUID,
	principal, interestRate, installment decimal.Decimal,
	tenureMonths int, startDate, endDate, now time.Time,
) LoanApproved {
	return LoanApproved{
		BaseEvent:          events.NewBaseEvent("credit.loan.approved", loanID, aggregateLoan, now),
		CustomerID:         customerID,
		Principal:          principal,
		InterestRate:       interestRate,
		MonthlyInstallment: installment,
		TenureMonths:       tenureMonths,
		StartDate:          startDate,
		EndDate:            endDate,
	}
}

// LoanRejected is raised when a loan request fails a policy check. No loan
// exists, so the customer is the aggregate.
type LoanRejected struct {
	events.BaseEvent
	Reason             string          `json:"reason"`
	RequestedAmount    decimal.Decimal `json:"requested_amount"`
	RequestedRate      decimal.Decimal `json:"requested_rate"`
	CorrectedRate      decimal.Decimal `json:"corrected_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	CreditScore        decimal.Decimal `json:"credit_score"`
	TenureMonths       int             `json:"tenure_months"`
}

func NewLoanRejected(
	customerID uuid.UUID, reason string,
	amount, requestedRate, correctedRate, installment, score decimal.Decimal,
	tenureMonths int, now time.Time,
) LoanRejected {
	return LoanRejected{
		BaseEvent:          events.NewBaseEvent("credit.loan.rejected", customerID, aggregateCustomer, now),
		Reason:             reason,
		RequestedAmount:    amount,
		RequestedRate:      requestedRate,
		CorrectedRate:      correctedRate,
		MonthlyInstallment: installment,
		CreditScore:        score,
		TenureMonths:       tenureMonths,
	}
}

// RepaymentRecorded is raised when an on-time installment is booked.
type RepaymentRecorded struct {
	events.BaseEvent
	CustomerID     uuid.UUID `json:"customer_id"`
	EmisPaidOnTime int       `json:"emis_paid_on_time"`
	RepaymentsLeft int       `json:"repayments_left"`
}

func NewRepaymentRecorded(loanID, customerID uuid.UUID, paid, left int, now time.Time) RepaymentRecorded {
	return RepaymentRecorded{
		BaseEvent:      events.NewBaseEvent("credit.loan.repayment_recorded", loanID, aggregateLoan, now),
		CustomerID:     customerID,
		EmisPaidOnTime: paid,
		RepaymentsLeft: left,
	}
}
