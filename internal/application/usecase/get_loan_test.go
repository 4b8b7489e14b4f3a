package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/pkg/testutil"
)

func TestGetLoanUseCase_Execute(t *testing.T) {
	customerID := testutil.TestCustomerID1
	loanID := testutil.TestLoanID1

	t.Run("returns loan with customer summary", func(t *testing.T) {
		uc := usecase.NewGetLoanUseCase(
			newMockCustomerRepository(existingCustomer(customerID, 50000)),
			newMockLoanRepository(existingLoan(loanID, customerID, 120000, "10661.85", 12, 5, today.AddDate(0, -5, 0))),
		)

		resp, err := uc.Execute(context.Background(), dto.GetLoanRequest{LoanID: loanID.String()})

		require.NoError(t, err)
		assert.Equal(t, loanID.String(), resp.LoanID)
		assert.Equal(t, customerID.String(), resp.Customer.CustomerID)
		assert.Equal(t, "Grace", resp.Customer.FirstName)
		assert.Equal(t, int64(9123456789), resp.Customer.PhoneNumber)
		testutil.AssertDecimal(t, "120000", resp.LoanAmount)
		testutil.AssertDecimal(t, "10661.85", resp.MonthlyInstallment)
		assert.Equal(t, 12, resp.TenureMonths)
		assert.Equal(t, 5, resp.EmisPaidOnTime)
		assert.Equal(t, 7, resp.RepaymentsLeft)
	})

	t.Run("unknown loan is not found", func(t *testing.T) {
		uc := usecase.NewGetLoanUseCase(newMockCustomerRepository(), newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.GetLoanRequest{LoanID: uuid.NewString()})

		assert.ErrorIs(t, err, model.ErrLoanNotFound)
		testutil.AssertErrorContains(t, err, "find loan")
	})

	t.Run("malformed id is invalid input", func(t *testing.T) {
		uc := usecase.NewGetLoanUseCase(newMockCustomerRepository(), newMockLoanRepository())

		_, err := uc.Execute(context.Background(), dto.GetLoanRequest{LoanID: "not-a-uuid"})

		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestListCustomerLoansUseCase_Execute(t *testing.T) {
	customerID := testutil.TestCustomerID1

	t.Run("lists only active loans", func(t *testing.T) {
		active := existingLoan(testutil.TestLoanID1, customerID, 120000, "10661.85", 12, 5, today.AddDate(0, -5, 0))
		closed := existingLoan(testutil.TestLoanID2, customerID, 50000, "4442.44", 12, 12, today.AddDate(-2, 0, 0))
		other := existingLoan(uuid.New(), testutil.TestCustomerID2, 50000, "4442.44", 12, 0, today)

		uc := usecase.NewListCustomerLoansUseCase(
			newMockCustomerRepository(existingCustomer(customerID, 50000)),
			newMockLoanRepository(active, closed, other),
			testClock,
		)

		resp, err := uc.Execute(context.Background(), dto.CustomerRequest{CustomerID: customerID.String()})

		require.NoError(t, err)
		require.Len(t, resp.Loans, 1)
		assert.Equal(t, testutil.TestLoanID1.String(), resp.Loans[0].LoanID)
		assert.Equal(t, 7, resp.Loans[0].RepaymentsLeft)
	})

	t.Run("customer without loans gets an empty list", func(t *testing.T) {
		uc := usecase.NewListCustomerLoansUseCase(
			newMockCustomerRepository(existingCustomer(customerID, 50000)),
			newMockLoanRepository(),
			testClock,
		)

		resp, err := uc.Execute(context.Background(), dto.CustomerRequest{CustomerID: customerID.String()})

		require.NoError(t, err)
		assert.NotNil(t, resp.Loans)
		assert.Empty(t, resp.Loans)
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		uc := usecase.NewListCustomerLoansUseCase(newMockCustomerRepository(), newMockLoanRepository(), testClock)

		_, err := uc.Execute(context.Background(), dto.CustomerRequest{CustomerID: customerID.String()})

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})
}
