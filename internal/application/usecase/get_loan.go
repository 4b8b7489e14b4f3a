package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/port"
)

// GetLoanUseCase retrieves a loan with its owner's summary.
type GetLoanUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(customers port.CustomerRepository, loans port.LoanRepository) *GetLoanUseCase {
	return &GetLoanUseCase{customers: customers, loans: loans}
}

// Execute returns the loan identified by req.
func (uc *GetLoanUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanDetailResponse, error) {
	loanID, err := parseID("loan ID", req.LoanID)
	if err != nil {
		return dto.LoanDetailResponse{}, err
	}

	loan, err := uc.loans.FindByID(ctx, loanID)
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find loan: %w", err)
	}

	customer, err := uc.customers.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanDetailResponse{}, fmt.Errorf("find customer: %w", err)
	}

	return dto.LoanDetailResponse{
		LoanID:             loan.ID().String(),
		Customer:           toCustomerSummary(customer),
		LoanAmount:         loan.Principal(),
		InterestRate:       loan.InterestRate(),
		MonthlyInstallment: loan.MonthlyInstallment(),
		TenureMonths:       loan.TenureMonths(),
		EmisPaidOnTime:     loan.EmisPaidOnTime(),
		RepaymentsLeft:     loan.RepaymentsLeft(),
		StartDate:          loan.StartDate(),
		EndDate:            loan.EndDate(),
	}, nil
}
