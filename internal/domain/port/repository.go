package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	// Save inserts a new customer (version 1) or updates an existing one
	// guarded by its version. A phone number clash yields model.ErrDuplicatePhone.
	Save(ctx context.Context, c model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
	// List returns up to limit customers ordered by ID, starting after afterID.
	List(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Customer, error)
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error)
	// FindByCustomerID returns every loan of the customer, any status.
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (model.LoanHistory, error)
}

// InboxRepository records consumed messages so redeliveries are ignored.
type InboxRepository interface {
	// MarkProcessed returns false when messageID was already recorded.
	MarkProcessed(ctx context.Context, messageID uuid.UUID, handledAt time.Time) (bool, error)
}

// Store groups the repositories sharing one unit of work.
type Store interface {
	Customers() CustomerRepository
	Loans() LoanRepository
	Inbox() InboxRepository
}

// TxManager runs work in a transaction serialized per customer. Loan
// creation, debt recalculation and repayments for the same customer never
// interleave.
type TxManager interface {
	WithinCustomerLock(ctx context.Context, customerID uuid.UUID, fn func(ctx context.Context, store Store) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Supporting ports
// ---------------------------------------------------------------------------

// ScoreCache stores computed credit scores keyed by customer.
type ScoreCache interface {
	Get(ctx context.Context, customerID uuid.UUID) (valueobject.CreditScore, bool, error)
	Set(ctx context.Context, customerID uuid.UUID, score valueobject.CreditScore) error
	Invalidate(ctx context.Context, customerID uuid.UUID) error
}

// DecisionRecorder observes eligibility decisions, e.g. for metrics.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, operation string, d service.Decision)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}
