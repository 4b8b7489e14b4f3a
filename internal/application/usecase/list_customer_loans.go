package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/port"
)

// ListCustomerLoansUseCase lists a customer's active loans.
type ListCustomerLoansUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	clock     port.Clock
}

// NewListCustomerLoansUseCase wires dependencies.
func NewListCustomerLoansUseCase(
	customers port.CustomerRepository,
	loans port.LoanRepository,
	clock port.Clock,
) *ListCustomerLoansUseCase {
	return &ListCustomerLoansUseCase{customers: customers, loans: loans, clock: clock}
}

// Execute returns loans still running today. An unknown customer is an
// error, a customer without active loans is an empty list.
func (uc *ListCustomerLoansUseCase) Execute(ctx context.Context, req dto.CustomerRequest) (dto.CustomerLoansResponse, error) {
	customerID, err := parseID("customer ID", req.CustomerID)
	if err != nil {
		return dto.CustomerLoansResponse{}, err
	}

	if _, err := uc.customers.FindByID(ctx, customerID); err != nil {
		return dto.CustomerLoansResponse{}, fmt.Errorf("find customer: %w", err)
	}

	history, err := uc.loans.FindByCustomerID(ctx, customerID)
	if err != nil {
		return dto.CustomerLoansResponse{}, fmt.Errorf("find loans: %w", err)
	}

	active := history.Active(uc.clock.Now())
	items := make([]dto.LoanItem, 0, len(active))
	for _, l := range active {
		items = append(items, toLoanItem(l))
	}

	return dto.CustomerLoansResponse{CustomerID: customerID.String(), Loans: items}, nil
}
