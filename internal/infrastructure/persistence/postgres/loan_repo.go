package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/model"
	pkgpostgres "github.com/bibbank/credit-engine/pkg/postgres"
)

const loanColumns = `
	id, customer_id, principal, interest_rate, monthly_installment,
	tenure_months, emis_paid_on_time, start_date, end_date,
	version, created_at, updated_at`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	q pkgpostgres.Querier
}

// NewLoanRepo creates a loan repository over a pool or transaction.
func NewLoanRepo(q pkgpostgres.Querier) *LoanRepo {
	return &LoanRepo{q: q}
}

// Save inserts the loan or updates its repayment progress when the stored
// version matches. Loan terms are immutable once written.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			emis_paid_on_time = EXCLUDED.emis_paid_on_time,
			version           = loans.version + 1,
			updated_at        = EXCLUDED.updated_at
		WHERE loans.version = $10
	`
	tag, err := r.q.Exec(ctx, query,
		loan.ID(), loan.CustomerID(), loan.Principal(), loan.InterestRate(), loan.MonthlyInstallment(),
		loan.TenureMonths(), loan.EmisPaidOnTime(), loan.StartDate(), loan.EndDate(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save loan %s: %w", loan.ID(), model.ErrConcurrentUpdate)
	}
	return nil
}

// FindByID retrieves a loan by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.q.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Loan{}, fmt.Errorf("loan %s: %w", id, model.ErrLoanNotFound)
	}
	return loan, err
}

// FindByCustomerID retrieves every loan of a customer, oldest first.
func (r *LoanRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (model.LoanHistory, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY start_date, created_at`

	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var history model.LoanHistory
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, loan)
	}
	return history, rows.Err()
}

func scanLoan(s scannable) (model.Loan, error) {
	var (
		id, customerID                              uuid.UUID
		principal, interestRate, monthlyInstallment decimal.Decimal
		tenureMonths, emisPaidOnTime                int
		startDate, endDate                          time.Time
		version                                     int
		createdAt, updatedAt                        time.Time
	)

	err := s.Scan(
		&id, &customerID, &principal, &interestRate, &monthlyInstallment,
		&tenureMonths, &emisPaidOnTime, &startDate, &endDate,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	return model.ReconstructLoan(
		id, customerID, principal, interestRate, monthlyInstallment,
		tenureMonths, emisPaidOnTime, startDate, endDate,
		version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}
