package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/pkg/observability"
)

// RegisterCustomerUseCase onboards a customer and fixes their approved limit.
type RegisterCustomerUseCase struct {
	customers port.CustomerRepository
	publisher port.EventPublisher
	clock     port.Clock
	logger    *slog.Logger
}

// NewRegisterCustomerUseCase wires dependencies.
func NewRegisterCustomerUseCase(
	customers port.CustomerRepository,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customers: customers,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute validates, persists and announces a new customer.
func (uc *RegisterCustomerUseCase) Execute(
	ctx context.Context,
	req dto.RegisterCustomerRequest,
) (resp dto.CustomerResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "customer.register")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	customer, err := model.NewCustomer(
		req.FirstName, req.LastName, req.Age, req.PhoneNumber, req.MonthlyIncome,
		uc.clock.Now().UTC(),
	)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}
	span.SetAttributes(attribute.String("customer_id", customer.ID().String()))

	if err := uc.customers.Save(ctx, customer); err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}

	publishCommitted(ctx, uc.publisher, uc.logger, customer.DomainEvents()...)

	return toCustomerResponse(customer), nil
}
