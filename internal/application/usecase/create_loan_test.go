package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/pkg/testutil"
)

type createLoanFixture struct {
	customers *mockCustomerRepository
	loans     *mockLoanRepository
	tx        *mockTxManager
	publisher *mockEventPublisher
	cache     *mockScoreCache
	recorder  *mockDecisionRecorder
	uc        *usecase.CreateLoanUseCase
}

func newCreateLoanFixture(customers ...model.Customer) *createLoanFixture {
	f := &createLoanFixture{
		customers: newMockCustomerRepository(customers...),
		loans:     newMockLoanRepository(),
		publisher: &mockEventPublisher{},
		cache:     newMockScoreCache(),
		recorder:  &mockDecisionRecorder{},
	}
	f.tx = &mockTxManager{store: &mockStore{customers: f.customers, loans: f.loans, inbox: &mockInbox{}}}
	f.uc = usecase.NewCreateLoanUseCase(f.tx, engine(), f.publisher, f.cache, f.recorder, testClock, discardLogger())
	return f
}

func loanRequest(amount, rate int64, tenure int) dto.LoanRequest {
	return dto.LoanRequest{
		CustomerID:   testutil.TestCustomerID1.String(),
		LoanAmount:   decimalInt(amount),
		InterestRate: decimalInt(rate),
		TenureMonths: tenure,
	}
}

func TestCreateLoanUseCase_Execute(t *testing.T) {
	customerID := testutil.TestCustomerID1

	t.Run("approved loan is materialised and booked as debt", func(t *testing.T) {
		f := newCreateLoanFixture(existingCustomer(customerID, 50000))

		resp, err := f.uc.Execute(context.Background(), loanRequest(100000, 10, 12))

		require.NoError(t, err)
		assert.True(t, resp.LoanApproved)
		assert.NotEmpty(t, resp.LoanID)
		assert.Equal(t, "Loan approved", resp.Message)
		testutil.AssertDecimal(t, "12", resp.InterestRate)
		testutil.AssertDecimal(t, "8884.88", resp.MonthlyInstallment)

		require.Len(t, f.loans.saved, 1)
		loan := f.loans.saved[0]
		assert.Equal(t, resp.LoanID, loan.ID().String())
		testutil.AssertDecimal(t, "12", loan.InterestRate())
		assert.Equal(t, today, loan.StartDate())
		assert.Equal(t, today.AddDate(1, 0, 0), loan.EndDate())
		assert.Equal(t, 0, loan.EmisPaidOnTime())

		require.Len(t, f.customers.saved, 1)
		testutil.AssertDecimal(t, "100000", f.customers.saved[0].CurrentDebt())

		assert.Equal(t, []string{"credit.loan.approved"}, f.publisher.types())
		assert.Equal(t, []uuid.UUID{customerID}, f.tx.locked)
		assert.Equal(t, []uuid.UUID{customerID}, f.cache.invalidated)
		require.Len(t, f.recorder.recorded, 1)
		assert.Equal(t, "create", f.recorder.recorded[0].operation)
	})

	t.Run("rejected loan writes nothing and announces the rejection", func(t *testing.T) {
		f := newCreateLoanFixture(existingCustomer(customerID, 50000))

		resp, err := f.uc.Execute(context.Background(), loanRequest(2000000, 12, 360))

		require.NoError(t, err)
		assert.False(t, resp.LoanApproved)
		assert.Empty(t, resp.LoanID)
		assert.Equal(t, "Loan amount exceeds approved limit", resp.Message)
		assert.True(t, resp.MonthlyInstallment.IsPositive())
		assert.Empty(t, f.loans.saved)
		assert.Empty(t, f.customers.saved)
		assert.Empty(t, f.cache.invalidated)

		require.Len(t, f.publisher.published, 1)
		rejected, ok := f.publisher.published[0].(event.LoanRejected)
		require.True(t, ok)
		assert.Equal(t, "Loan amount exceeds approved limit", rejected.Reason)
		assert.Equal(t, customerID, rejected.AggregateID())
	})

	t.Run("successive loans count towards the salary cap", func(t *testing.T) {
		f := newCreateLoanFixture(existingCustomer(customerID, 50000))

		first, err := f.uc.Execute(context.Background(), loanRequest(100000, 10, 12))
		require.NoError(t, err)
		second, err := f.uc.Execute(context.Background(), loanRequest(100000, 10, 12))
		require.NoError(t, err)
		third, err := f.uc.Execute(context.Background(), loanRequest(100000, 10, 12))
		require.NoError(t, err)

		assert.True(t, first.LoanApproved)
		assert.True(t, second.LoanApproved)
		assert.False(t, third.LoanApproved)
		assert.Equal(t, "EMIs exceed 50% of monthly salary", third.Message)
		assert.Len(t, f.loans.saved, 2)

		c, err := f.customers.FindByID(context.Background(), customerID)
		require.NoError(t, err)
		testutil.AssertDecimal(t, "200000", c.CurrentDebt())
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		f := newCreateLoanFixture()

		_, err := f.uc.Execute(context.Background(), loanRequest(1000, 10, 12))

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
		assert.Empty(t, f.publisher.published)
		assert.Empty(t, f.recorder.recorded)
	})

	t.Run("lock failure is returned", func(t *testing.T) {
		f := newCreateLoanFixture(existingCustomer(customerID, 50000))
		f.tx.err = model.ErrConcurrentUpdate

		_, err := f.uc.Execute(context.Background(), loanRequest(1000, 10, 12))

		assert.ErrorIs(t, err, model.ErrConcurrentUpdate)
	})

	t.Run("loan save failure aborts before debt update", func(t *testing.T) {
		f := newCreateLoanFixture(existingCustomer(customerID, 50000))
		f.loans.saveFunc = func(context.Context, model.Loan) error { return errors.New("disk full") }

		_, err := f.uc.Execute(context.Background(), loanRequest(1000, 10, 12))

		testutil.AssertErrorContains(t, err, "save loan")
		assert.Empty(t, f.customers.saved)
		assert.Empty(t, f.publisher.published)
	})
}
