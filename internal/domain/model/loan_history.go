package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/pkg/money"
)

// LoanHistory is the full set of loans of one customer, as fetched by the
// persistence layer. Aggregates are folds over the slice; nothing here reads
// from storage.
type LoanHistory []Loan

// Active returns the loans still running on today.
func (h LoanHistory) Active(today time.Time) LoanHistory {
	var out LoanHistory
	for _, l := range h {
		if l.IsActive(today) {
			out = append(out, l)
		}
	}
	return out
}

// ActivePrincipal sums the principal of active loans.
func (h LoanHistory) ActivePrincipal(today time.Time) decimal.Decimal {
	return h.Active(today).TotalPrincipal()
}

// ActiveInstallments sums the monthly installments of active loans.
func (h LoanHistory) ActiveInstallments(today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range h.Active(today) {
		total = total.Add(l.MonthlyInstallment())
	}
	return total
}

// TotalPrincipal sums principal over every loan regardless of status.
func (h LoanHistory) TotalPrincipal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range h {
		total = total.Add(l.Principal())
	}
	return total
}

// TotalTenure is the number of installments ever scheduled.
func (h LoanHistory) TotalTenure() int {
	total := 0
	for _, l := range h {
		total += l.TenureMonths()
	}
	return total
}

// TotalPaidOnTime is the number of installments ever paid on schedule.
func (h LoanHistory) TotalPaidOnTime() int {
	total := 0
	for _, l := range h {
		total += l.EmisPaidOnTime()
	}
	return total
}

// StartedInYear counts loans whose start date falls in year.
func (h LoanHistory) StartedInYear(year int) int {
	n := 0
	for _, l := range h {
		if l.StartDate().Year() == year {
			n++
		}
	}
	return n
}

// OutstandingDebt is the unpaid principal across active loans, floored at zero.
func (h LoanHistory) OutstandingDebt(today time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range h.Active(today) {
		total = total.Add(l.Outstanding())
	}
	return money.NonNegative(total)
}
