package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/model"
)

var today = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

func testCustomer(income int64) model.Customer {
	inc := decimal.NewFromInt(income)
	return model.ReconstructCustomer(
		uuid.New(), "Ada", "Lovelace", 35, 9876543210,
		inc, model.ApprovedLimitFor(inc), decimal.Zero,
		1, today, today,
	)
}

func testLoan(customerID uuid.UUID, principal, installment int64, tenure, paid int, start time.Time) model.Loan {
	return model.ReconstructLoan(
		uuid.New(), customerID,
		decimal.NewFromInt(principal), decimal.NewFromInt(10), decimal.NewFromInt(installment),
		tenure, paid,
		start, model.AddMonths(start, tenure),
		1, start, start,
	)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
