//go:build integration

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/internal/domain/valueobject"
	"github.com/bibbank/credit-engine/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/credit-engine/pkg/testutil"
)

func setup(t *testing.T) (*testutil.PostgresContainer, *postgres.Store) {
	t.Helper()
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	pc.Migrate(t, postgres.Migrations, postgres.MigrationsDir)
	return pc, postgres.NewStore(pc.Pool)
}

func newCustomer(t *testing.T, phone int64, income string) model.Customer {
	t.Helper()
	c, err := model.NewCustomer("Ada", "Lovelace", 36, phone, decimal.RequireFromString(income), testutil.TestToday)
	require.NoError(t, err)
	return c
}

func TestCustomerRepo(t *testing.T) {
	pc, store := setup(t)
	ctx := context.Background()
	repo := store.Customers()

	t.Run("save and find", func(t *testing.T) {
		pc.Truncate(t, "customers")
		c := newCustomer(t, 9876543210, "50000")
		require.NoError(t, repo.Save(ctx, c))

		got, err := repo.FindByID(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, c.ID(), got.ID())
		assert.Equal(t, "Ada Lovelace", got.Name())
		testutil.AssertDecimal(t, "1800000", got.ApprovedLimit())
		testutil.AssertDecimal(t, "0", got.CurrentDebt())
		assert.Equal(t, 1, got.Version())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		pc.Truncate(t, "customers")
		require.NoError(t, repo.Save(ctx, newCustomer(t, 9876543211, "1000")))
		err := repo.Save(ctx, newCustomer(t, 9876543211, "2000"))
		assert.ErrorIs(t, err, model.ErrDuplicatePhone)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		pc.Truncate(t, "customers")
		c := newCustomer(t, 9876543212, "1000")
		require.NoError(t, repo.Save(ctx, c))

		first, err := c.AddDebt(decimal.NewFromInt(10), time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))

		second, err := c.AddDebt(decimal.NewFromInt(20), time.Now())
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, second), model.ErrConcurrentUpdate)

		got, err := repo.FindByID(ctx, c.ID())
		require.NoError(t, err)
		testutil.AssertDecimal(t, "10", got.CurrentDebt())
		assert.Equal(t, 2, got.Version())
	})

	t.Run("list pages by id", func(t *testing.T) {
		pc.Truncate(t, "customers")
		for i := int64(0); i < 5; i++ {
			require.NoError(t, repo.Save(ctx, newCustomer(t, 9000000000+i, "1000")))
		}

		var seen []uuid.UUID
		after := uuid.Nil
		for {
			page, err := repo.List(ctx, after, 2)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			for _, c := range page {
				seen = append(seen, c.ID())
			}
			after = page[len(page)-1].ID()
		}
		assert.Len(t, seen, 5)
	})
}

func TestLoanRepo(t *testing.T) {
	pc, store := setup(t)
	ctx := context.Background()
	pc.Truncate(t, "customers")

	c := newCustomer(t, 9876543220, "50000")
	require.NoError(t, store.Customers().Save(ctx, c))

	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	loan, err := model.NewLoan(c.ID(),
		decimal.NewFromInt(100000), decimal.NewFromInt(12), decimal.RequireFromString("8884.88"),
		12, start, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Loans().Save(ctx, loan))

	got, err := store.Loans().FindByID(ctx, loan.ID())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.CustomerID())
	testutil.AssertDecimal(t, "8884.88", got.MonthlyInstallment())
	assert.True(t, got.EndDate().Equal(loan.EndDate()))

	paid, err := got.RecordOnTimeRepayment(time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Loans().Save(ctx, paid))

	history, err := store.Loans().FindByCustomerID(ctx, c.ID())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].EmisPaidOnTime())

	_, err = store.Loans().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrLoanNotFound)
}

func TestInboxRepo(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	id := uuid.New()

	fresh, err := store.Inbox().MarkProcessed(ctx, id, time.Now())
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.Inbox().MarkProcessed(ctx, id, time.Now())
	require.NoError(t, err)
	assert.False(t, fresh)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }

type nopCache struct{}

func (nopCache) Get(context.Context, uuid.UUID) (valueobject.CreditScore, bool, error) {
	return valueobject.CreditScore{}, false, nil
}
func (nopCache) Set(context.Context, uuid.UUID, valueobject.CreditScore) error { return nil }
func (nopCache) Invalidate(context.Context, uuid.UUID) error                  { return nil }

type nopRecorder struct{}

func (nopRecorder) RecordDecision(context.Context, string, service.Decision) {}

var _ port.ScoreCache = nopCache{}

// Concurrent requests for one customer must not both pass the EMI check.
// Income 20000 allows 10000 of installments; each loan needs 8884.88.
func TestCreateLoanSerializesPerCustomer(t *testing.T) {
	pc, store := setup(t)
	ctx := context.Background()

	c := newCustomer(t, 9876543230, "20000")
	require.NoError(t, store.Customers().Save(ctx, c))

	uc := usecase.NewCreateLoanUseCase(
		postgres.NewTxManager(pc.Pool),
		service.NewEligibilityEngine(service.NewCreditScorer()),
		nopPublisher{}, nopCache{}, nopRecorder{},
		testutil.FixedClock(testutil.TestToday),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	const workers = 4
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := uc.Execute(ctx, dto.LoanRequest{
				CustomerID:   c.ID().String(),
				LoanAmount:   decimal.NewFromInt(100000),
				InterestRate: decimal.NewFromInt(12),
				TenureMonths: 12,
			})
			if assert.NoError(t, err) && resp.LoanApproved {
				mu.Lock()
				approved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, approved)

	history, err := store.Loans().FindByCustomerID(ctx, c.ID())
	require.NoError(t, err)
	assert.Len(t, history, 1)

	got, err := store.Customers().FindByID(ctx, c.ID())
	require.NoError(t, err)
	testutil.AssertDecimal(t, "100000", got.CurrentDebt())
}

func TestRecordRepaymentIsIdempotent(t *testing.T) {
	pc, store := setup(t)
	ctx := context.Background()

	c := newCustomer(t, 9876543240, "50000")
	require.NoError(t, store.Customers().Save(ctx, c))
	loan, err := model.NewLoan(c.ID(),
		decimal.NewFromInt(1000), decimal.NewFromInt(12), decimal.RequireFromString("1010.00"),
		1, testutil.TestToday, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Loans().Save(ctx, loan))

	uc := usecase.NewRecordRepaymentUseCase(
		store.Loans(), postgres.NewTxManager(pc.Pool),
		nopPublisher{}, nopCache{},
		testutil.FixedClock(testutil.TestToday),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	req := dto.RecordRepaymentRequest{MessageID: uuid.NewString(), LoanID: loan.ID().String()}

	resp, err := uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Duplicate)
	assert.Equal(t, 1, resp.EmisPaidOnTime)

	resp, err = uc.Execute(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, 1, resp.EmisPaidOnTime)

	// A fully repaid loan rejects further repayments and rolls back the inbox row.
	_, err = uc.Execute(ctx, dto.RecordRepaymentRequest{MessageID: uuid.NewString(), LoanID: loan.ID().String()})
	assert.ErrorIs(t, err, model.ErrLoanFullyRepaid)
}
