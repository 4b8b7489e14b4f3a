package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterCustomerRequest carries the data needed to onboard a customer.
type RegisterCustomerRequest struct {
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
}

// LoanRequest is a proposed loan for a customer. It drives both the
// read-only eligibility check and loan creation.
type LoanRequest struct {
	CustomerID   string          `json:"customer_id"`
	LoanAmount   decimal.Decimal `json:"loan_amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	TenureMonths int             `json:"tenure"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// CustomerRequest identifies a customer.
type CustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// RecordRepaymentRequest books one on-time installment against a loan.
type RecordRepaymentRequest struct {
	// MessageID deduplicates redelivered repayment events.
	MessageID string    `json:"message_id"`
	LoanID    string    `json:"loan_id"`
	PaidAt    time.Time `json:"paid_at"`
}

// RecalculateDebtRequest controls a debt recalculation sweep.
type RecalculateDebtRequest struct {
	BatchSize int `json:"batch_size"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CustomerResponse is the external representation of a customer.
type CustomerResponse struct {
	CustomerID    string          `json:"customer_id"`
	Name          string          `json:"name"`
	Age           int             `json:"age"`
	PhoneNumber   int64           `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EligibilityResponse is the outcome of a read-only eligibility check.
type EligibilityResponse struct {
	CustomerID            string          `json:"customer_id"`
	Approval              bool            `json:"approval"`
	CreditScore           int64           `json:"credit_score"`
	InterestRate          decimal.Decimal `json:"interest_rate"`
	CorrectedInterestRate decimal.Decimal `json:"corrected_interest_rate"`
	TenureMonths          int             `json:"tenure"`
	MonthlyInstallment    decimal.Decimal `json:"monthly_installment"`
	Message               string          `json:"message"`
}

// CreateLoanResponse is the outcome of a loan creation attempt. LoanID is
// empty when the loan was not approved.
type CreateLoanResponse struct {
	LoanID             string          `json:"loan_id,omitempty"`
	CustomerID         string          `json:"customer_id"`
	LoanApproved       bool            `json:"loan_approved"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	Message            string          `json:"message"`
}

// CustomerSummary is the customer block embedded in loan details.
type CustomerSummary struct {
	CustomerID  string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber int64  `json:"phone_number"`
	Age         int    `json:"age"`
}

// LoanDetailResponse is a loan together with its owner.
type LoanDetailResponse struct {
	LoanID             string          `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	TenureMonths       int             `json:"tenure"`
	EmisPaidOnTime     int             `json:"emis_paid_on_time"`
	RepaymentsLeft     int             `json:"repayments_left"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
}

// LoanItem is one active loan in a customer listing.
type LoanItem struct {
	LoanID             string          `json:"loan_id"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	MonthlyInstallment decimal.Decimal `json:"monthly_installment"`
	RepaymentsLeft     int             `json:"repayments_left"`
	EndDate            time.Time       `json:"end_date"`
}

// CustomerLoansResponse lists the active loans of a customer.
type CustomerLoansResponse struct {
	CustomerID string     `json:"customer_id"`
	Loans      []LoanItem `json:"loans"`
}

// CreditScoreResponse carries a customer's score.
type CreditScoreResponse struct {
	CustomerID string          `json:"customer_id"`
	Score      int64           `json:"credit_score"`
	ExactScore decimal.Decimal `json:"exact_score"`
	Cached     bool            `json:"cached"`
}

// RepaymentResponse reports the loan state after a repayment.
type RepaymentResponse struct {
	LoanID         string `json:"loan_id"`
	EmisPaidOnTime int    `json:"emis_paid_on_time"`
	RepaymentsLeft int    `json:"repayments_left"`
	Duplicate      bool   `json:"duplicate"`
}

// RecalculateDebtResponse summarises a recalculation sweep.
type RecalculateDebtResponse struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
