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

const phoneNumberConstraint = "customers_phone_number_key"

const customerColumns = `
	id, first_name, last_name, age, phone_number,
	monthly_income, approved_limit, current_debt,
	version, created_at, updated_at`

// CustomerRepo implements port.CustomerRepository.
type CustomerRepo struct {
	q pkgpostgres.Querier
}

// NewCustomerRepo creates a customer repository over a pool or transaction.
func NewCustomerRepo(q pkgpostgres.Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Save inserts the customer or updates it when the stored version matches.
func (r *CustomerRepo) Save(ctx context.Context, c model.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			first_name     = EXCLUDED.first_name,
			last_name      = EXCLUDED.last_name,
			age            = EXCLUDED.age,
			monthly_income = EXCLUDED.monthly_income,
			current_debt   = EXCLUDED.current_debt,
			version        = customers.version + 1,
			updated_at     = EXCLUDED.updated_at
		WHERE customers.version = $9
	`
	tag, err := r.q.Exec(ctx, query,
		c.ID(), c.FirstName(), c.LastName(), c.Age(), c.PhoneNumber(),
		c.MonthlyIncome(), c.ApprovedLimit(), c.CurrentDebt(),
		c.Version(), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if pkgpostgres.IsUniqueViolation(err, phoneNumberConstraint) {
			return fmt.Errorf("save customer: %w", model.ErrDuplicatePhone)
		}
		return fmt.Errorf("save customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("save customer %s: %w", c.ID(), model.ErrConcurrentUpdate)
	}
	return nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return model.Customer{}, fmt.Errorf("customer %s: %w", id, model.ErrCustomerNotFound)
	}
	return c, err
}

// List returns up to limit customers with an ID greater than afterID.
func (r *CustomerRepo) List(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.q.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func scanCustomer(s scannable) (model.Customer, error) {
	var (
		id                                        uuid.UUID
		firstName, lastName                       string
		age                                       int
		phoneNumber                               int64
		monthlyIncome, approvedLimit, currentDebt decimal.Decimal
		version                                   int
		createdAt, updatedAt                      time.Time
	)

	err := s.Scan(
		&id, &firstName, &lastName, &age, &phoneNumber,
		&monthlyIncome, &approvedLimit, &currentDebt,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return model.Customer{}, err
		}
		return model.Customer{}, fmt.Errorf("scan customer: %w", err)
	}

	return model.ReconstructCustomer(
		id, firstName, lastName, age, phoneNumber,
		monthlyIncome, approvedLimit, currentDebt,
		version, createdAt.UTC(), updatedAt.UTC(),
	), nil
}
