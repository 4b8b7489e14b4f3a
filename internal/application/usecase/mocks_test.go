package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/internal/domain/valueobject"
	"github.com/bibbank/credit-engine/pkg/testutil"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	saveFunc     func(ctx context.Context, c model.Customer) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (model.Customer, error)
	customers    map[uuid.UUID]model.Customer
	saved        []model.Customer
}

func newMockCustomerRepository(customers ...model.Customer) *mockCustomerRepository {
	m := &mockCustomerRepository{customers: make(map[uuid.UUID]model.Customer)}
	for _, c := range customers {
		m.customers[c.ID()] = c
	}
	return m
}

func (m *mockCustomerRepository) Save(ctx context.Context, c model.Customer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.saved = append(m.saved, c)
	m.customers[c.ID()] = c.ClearEvents()
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	c, ok := m.customers[id]
	if !ok {
		return model.Customer{}, model.ErrCustomerNotFound
	}
	return c, nil
}

func (m *mockCustomerRepository) List(_ context.Context, afterID uuid.UUID, limit int) ([]model.Customer, error) {
	all := make([]model.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		if afterID == uuid.Nil || c.ID().String() > afterID.String() {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID().String() < all[j].ID().String() })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type mockLoanRepository struct {
	saveFunc     func(ctx context.Context, loan model.Loan) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (model.Loan, error)
	loans        map[uuid.UUID]model.Loan
	order        []uuid.UUID
	saved        []model.Loan
}

func newMockLoanRepository(loans ...model.Loan) *mockLoanRepository {
	m := &mockLoanRepository{loans: make(map[uuid.UUID]model.Loan)}
	for _, l := range loans {
		m.put(l)
	}
	return m
}

func (m *mockLoanRepository) put(l model.Loan) {
	if _, ok := m.loans[l.ID()]; !ok {
		m.order = append(m.order, l.ID())
	}
	m.loans[l.ID()] = l.ClearEvents()
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.saved = append(m.saved, loan)
	m.put(loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	l, ok := m.loans[id]
	if !ok {
		return model.Loan{}, model.ErrLoanNotFound
	}
	return l, nil
}

func (m *mockLoanRepository) FindByCustomerID(_ context.Context, customerID uuid.UUID) (model.LoanHistory, error) {
	var out model.LoanHistory
	for _, id := range m.order {
		if l := m.loans[id]; l.CustomerID() == customerID {
			out = append(out, l)
		}
	}
	return out, nil
}

type mockInbox struct {
	seen map[uuid.UUID]bool
}

func (m *mockInbox) MarkProcessed(_ context.Context, id uuid.UUID, _ time.Time) (bool, error) {
	if m.seen == nil {
		m.seen = make(map[uuid.UUID]bool)
	}
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

type mockStore struct {
	customers *mockCustomerRepository
	loans     *mockLoanRepository
	inbox     *mockInbox
}

func (s *mockStore) Customers() port.CustomerRepository { return s.customers }
func (s *mockStore) Loans() port.LoanRepository         { return s.loans }
func (s *mockStore) Inbox() port.InboxRepository        { return s.inbox }

// mockTxManager runs fn directly against the store. It does not roll back.
type mockTxManager struct {
	store  *mockStore
	locked []uuid.UUID
	err    error
}

func (m *mockTxManager) WithinCustomerLock(
	ctx context.Context, customerID uuid.UUID, fn func(ctx context.Context, store port.Store) error,
) error {
	m.locked = append(m.locked, customerID)
	if m.err != nil {
		return m.err
	}
	return fn(ctx, m.store)
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...event.DomainEvent) error
	published   []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.published = append(m.published, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventType())
	}
	return out
}

type mockScoreCache struct {
	getErr      error
	setErr      error
	entries     map[uuid.UUID]valueobject.CreditScore
	invalidated []uuid.UUID
}

func newMockScoreCache() *mockScoreCache {
	return &mockScoreCache{entries: make(map[uuid.UUID]valueobject.CreditScore)}
}

func (m *mockScoreCache) Get(_ context.Context, id uuid.UUID) (valueobject.CreditScore, bool, error) {
	if m.getErr != nil {
		return valueobject.CreditScore{}, false, m.getErr
	}
	s, ok := m.entries[id]
	return s, ok, nil
}

func (m *mockScoreCache) Set(_ context.Context, id uuid.UUID, s valueobject.CreditScore) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[id] = s
	return nil
}

func (m *mockScoreCache) Invalidate(_ context.Context, id uuid.UUID) error {
	m.invalidated = append(m.invalidated, id)
	delete(m.entries, id)
	return nil
}

type recordedDecision struct {
	operation string
	decision  service.Decision
}

type mockDecisionRecorder struct {
	recorded []recordedDecision
}

func (m *mockDecisionRecorder) RecordDecision(_ context.Context, operation string, d service.Decision) {
	m.recorded = append(m.recorded, recordedDecision{operation: operation, decision: d})
}

// --- Fixtures ---

var (
	today     = testutil.TestToday
	testClock = testutil.FixedClock(today.Add(10 * time.Hour))
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func engine() *service.EligibilityEngine {
	return service.NewEligibilityEngine(service.NewCreditScorer())
}

func existingCustomer(id uuid.UUID, income int64) model.Customer {
	return reconstructCustomer(id, income, 0)
}

func reconstructCustomer(id uuid.UUID, income, debt int64) model.Customer {
	inc := decimalInt(income)
	return model.ReconstructCustomer(
		id, "Grace", "Hopper", 45, 9123456789,
		inc, model.ApprovedLimitFor(inc), decimalInt(debt),
		3, today, today,
	)
}

func existingLoan(id, customerID uuid.UUID, principal int64, installment string, tenure, paid int, start time.Time) model.Loan {
	return model.ReconstructLoan(
		id, customerID,
		decimalInt(principal), decimalInt(12), decimalStr(installment),
		tenure, paid,
		start, model.AddMonths(start, tenure),
		1, start, start,
	)
}
