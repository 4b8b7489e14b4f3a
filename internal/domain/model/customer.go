package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/pkg/money"
)

const (
	minCustomerAge  = 18
	maxCustomerAge  = 100
	maxNameLength   = 50
	minPhoneDigits  = 10
	limitMultiplier = 36
)

// ---------------------------------------------------------------------------
// Customer aggregate root
// ---------------------------------------------------------------------------

// Customer is an immutable aggregate. Mutations return a new copy.
type Customer struct {
	id            uuid.UUID
	firstName     string
	lastName      string
	age           int
	phoneNumber   int64
	monthlyIncome decimal.Decimal
	approvedLimit decimal.Decimal
	currentDebt   decimal.Decimal
	version       int
	createdAt     time.Time
	updatedAt     time.Time
	domainEvents  []event.DomainEvent
}

// ApprovedLimitFor returns the credit ceiling granted at onboarding:
// 36 x monthly income, rounded up to the next 100,000.
func ApprovedLimitFor(monthlyIncome decimal.Decimal) decimal.Decimal {
	return money.CeilToStep(monthlyIncome.Mul(decimal.NewFromInt(limitMultiplier)), money.LimitStep)
}

// NewCustomer validates registration data and creates a customer with a
// freshly computed approved limit and no debt.
func NewCustomer(
	firstName, lastName string,
	age int,
	phoneNumber int64,
	monthlyIncome decimal.Decimal,
	now time.Time,
) (Customer, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if firstName == "" || len(firstName) > maxNameLength {
		return Customer{}, InvalidInputf("first name must be 1-%d characters", maxNameLength)
	}
	if lastName == "" || len(lastName) > maxNameLength {
		return Customer{}, InvalidInputf("last name must be 1-%d characters", maxNameLength)
	}
	if age < minCustomerAge || age > maxCustomerAge {
		return Customer{}, InvalidInputf("age must be between %d and %d, got %d", minCustomerAge, maxCustomerAge, age)
	}
	if phoneNumber <= 0 || len(strconv.FormatInt(phoneNumber, 10)) < minPhoneDigits {
		return Customer{}, InvalidInputf("phone number must be at least %d digits", minPhoneDigits)
	}
	if monthlyIncome.IsNegative() {
		return Customer{}, InvalidInputf("monthly income must not be negative, got %s", monthlyIncome)
	}
	if !monthlyIncome.Equal(money.Round(monthlyIncome)) {
		return Customer{}, InvalidInputf("monthly income must have at most %d decimals, got %s", money.Scale, monthlyIncome)
	}

	c := Customer{
		id:            uuid.New(),
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlyIncome: monthlyIncome,
		approvedLimit: ApprovedLimitFor(monthlyIncome),
		currentDebt:   decimal.Zero,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}
	c.domainEvents = append(c.domainEvents, event.NewCustomerRegistered(
		c.id, c.firstName, c.lastName, c.monthlyIncome, c.approvedLimit, now,
	))
	return c, nil
}

// ReconstructCustomer rebuilds a Customer aggregate from persistence.
func ReconstructCustomer(
	id uuid.UUID,
	firstName, lastName string,
	age int,
	phoneNumber int64,
	monthlyIncome, approvedLimit, currentDebt decimal.Decimal,
	version int,
	createdAt, updatedAt time.Time,
) Customer {
	return Customer{
		id:            id,
		firstName:     firstName,
		lastName:      lastName,
		age:           age,
		phoneNumber:   phoneNumber,
		monthlyIncome: monthlyIncome,
		approvedLimit: approvedLimit,
		currentDebt:   currentDebt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// AddDebt books the principal of a newly issued loan against the customer.
func (c Customer) AddDebt(amount decimal.Decimal, now time.Time) (Customer, error) {
	if amount.IsNegative() {
		return c, InvalidInputf("debt increment must not be negative, got %s", amount)
	}
	next := c
	next.currentDebt = c.currentDebt.Add(amount)
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	return next, nil
}

// WithCurrentDebt replaces the current debt, flooring it at zero.
func (c Customer) WithCurrentDebt(debt decimal.Decimal, now time.Time) Customer {
	next := c
	next.currentDebt = money.NonNegative(debt)
	next.updatedAt = now
	next.domainEvents = copyEvents(c.domainEvents)
	if !next.currentDebt.Equal(c.currentDebt) {
		next.domainEvents = append(next.domainEvents,
			event.NewCustomerDebtRecalculated(c.id, c.currentDebt, next.currentDebt, now))
	}
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c Customer) ID() uuid.UUID                     { return c.id }
func (c Customer) FirstName() string                 { return c.firstName }
func (c Customer) LastName() string                  { return c.lastName }
func (c Customer) Age() int                          { return c.age }
func (c Customer) PhoneNumber() int64                { return c.phoneNumber }
func (c Customer) MonthlyIncome() decimal.Decimal    { return c.monthlyIncome }
func (c Customer) ApprovedLimit() decimal.Decimal    { return c.approvedLimit }
func (c Customer) CurrentDebt() decimal.Decimal      { return c.currentDebt }
func (c Customer) Version() int                      { return c.version }
func (c Customer) CreatedAt() time.Time              { return c.createdAt }
func (c Customer) UpdatedAt() time.Time              { return c.updatedAt }
func (c Customer) DomainEvents() []event.DomainEvent { return c.domainEvents }

// Name returns "First Last".
func (c Customer) Name() string {
	return c.firstName + " " + c.lastName
}

// ClearEvents returns a copy with an empty event list.
func (c Customer) ClearEvents() Customer {
	next := c
	next.domainEvents = nil
	return next
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if src == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(src))
	copy(out, src)
	return out
}
