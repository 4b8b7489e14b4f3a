package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/event"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id                 uuid.UUID
	customerID         uuid.UUID
	principal          decimal.Decimal
	interestRate       decimal.Decimal
	monthlyInstallment decimal.Decimal
	tenureMonths       int
	emisPaidOnTime     int
	startDate          time.Time
	endDate            time.Time
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	domainEvents       []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan materialises an approved loan starting on startDate with no
// installments paid. The end date is startDate plus tenure months.
func NewLoan(
	customerID uuid.UUID,
	principal, interestRate, monthlyInstallment decimal.Decimal,
	tenureMonths int,
	startDate, now time.Time,
) (Loan, error) {
	if customerID == uuid.Nil {
		return Loan{}, InvalidInputf("customer ID is required")
	}
	if principal.IsNegative() {
		return Loan{}, InvalidInputf("principal must not be negative")
	}
	if interestRate.IsNegative() {
		return Loan{}, InvalidInputf("interest rate must not be negative")
	}
	if monthlyInstallment.IsNegative() {
		return Loan{}, InvalidInputf("monthly installment must not be negative")
	}
	if tenureMonths < 1 {
		return Loan{}, InvalidInputf("tenure must be at least one month")
	}

	start := DateOf(startDate)
	l := Loan{
		id:                 uuid.New(),
		customerID:         customerID,
		principal:          principal,
		interestRate:       interestRate,
		monthlyInstallment: monthlyInstallment,
		tenureMonths:       tenureMonths,
		emisPaidOnTime:     0,
		startDate:          start,
		endDate:            AddMonths(start, tenureMonths),
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}
	l.domainEvents = append(l.domainEvents, event.NewLoanApproved(
		l.id, customerID, principal, interestRate, monthlyInstallment,
		tenureMonths, l.startDate, l.endDate, now,
	))
	return l, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, customerID uuid.UUID,
	principal, interestRate, monthlyInstallment decimal.Decimal,
	tenureMonths, emisPaidOnTime int,
	startDate, endDate time.Time,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:                 id,
		customerID:         customerID,
		principal:          principal,
		interestRate:       interestRate,
		monthlyInstallment: monthlyInstallment,
		tenureMonths:       tenureMonths,
		emisPaidOnTime:     emisPaidOnTime,
		startDate:          DateOf(startDate),
		endDate:            DateOf(endDate),
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordOnTimeRepayment books one more installment paid on schedule.
func (l Loan) RecordOnTimeRepayment(now time.Time) (Loan, error) {
	if l.emisPaidOnTime >= l.tenureMonths {
		return l, ErrLoanFullyRepaid
	}
	next := l
	next.emisPaidOnTime = l.emisPaidOnTime + 1
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewRepaymentRecorded(
		l.id, l.customerID, next.emisPaidOnTime, next.RepaymentsLeft(), now,
	))
	return next, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// IsActive reports whether today is on or before the loan's end date.
func (l Loan) IsActive(today time.Time) bool {
	return !DateOf(today).After(l.endDate)
}

// RepaymentsLeft is the number of installments not yet paid on time.
func (l Loan) RepaymentsLeft() int {
	return max(0, l.tenureMonths-l.emisPaidOnTime)
}

// Outstanding is the principal not yet covered by on-time installments. It
// can be negative for loans whose installments include interest.
func (l Loan) Outstanding() decimal.Decimal {
	paid := l.monthlyInstallment.Mul(decimal.NewFromInt(int64(l.emisPaidOnTime)))
	return l.principal.Sub(paid)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() uuid.UUID                       { return l.id }
func (l Loan) CustomerID() uuid.UUID               { return l.customerID }
func (l Loan) Principal() decimal.Decimal          { return l.principal }
func (l Loan) InterestRate() decimal.Decimal       { return l.interestRate }
func (l Loan) MonthlyInstallment() decimal.Decimal { return l.monthlyInstallment }
func (l Loan) TenureMonths() int                   { return l.tenureMonths }
func (l Loan) EmisPaidOnTime() int                 { return l.emisPaidOnTime }
func (l Loan) StartDate() time.Time                { return l.startDate }
func (l Loan) EndDate() time.Time                  { return l.endDate }
func (l Loan) Version() int                        { return l.version }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// Calendar helpers
// ---------------------------------------------------------------------------

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months to date. When the day does not exist in
// the target month the last day of that month is used (Jan 31 + 1 = Feb 28).
func AddMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), min(d, lastDay), 0, 0, 0, 0, time.UTC)
}
