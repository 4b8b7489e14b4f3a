package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/pkg/observability"
)

// CheckEligibilityUseCase evaluates a proposed loan without creating it.
type CheckEligibilityUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	engine    *service.EligibilityEngine
	recorder  port.DecisionRecorder
	clock     port.Clock
}

// NewCheckEligibilityUseCase wires dependencies.
func NewCheckEligibilityUseCase(
	customers port.CustomerRepository,
	loans port.LoanRepository,
	engine *service.EligibilityEngine,
	recorder port.DecisionRecorder,
	clock port.Clock,
) *CheckEligibilityUseCase {
	return &CheckEligibilityUseCase{
		customers: customers,
		loans:     loans,
		engine:    engine,
		recorder:  recorder,
		clock:     clock,
	}
}

// Execute returns the decision the engine would make for req right now.
func (uc *CheckEligibilityUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (resp dto.EligibilityResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "loan.check_eligibility",
		attribute.String("customer_id", req.CustomerID))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	customerID, err := parseID("customer ID", req.CustomerID)
	if err != nil {
		return dto.EligibilityResponse{}, err
	}

	customer, err := uc.customers.FindByID(ctx, customerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("find customer: %w", err)
	}

	history, err := uc.loans.FindByCustomerID(ctx, customerID)
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("find loans: %w", err)
	}

	decision, err := uc.engine.Decide(customer, history, toLoanRequest(req), uc.clock.Now())
	if err != nil {
		return dto.EligibilityResponse{}, fmt.Errorf("decide eligibility: %w", err)
	}
	uc.recorder.RecordDecision(ctx, "check", decision)

	return dto.EligibilityResponse{
		CustomerID:            customerID.String(),
		Approval:              decision.Approved,
		CreditScore:           decision.Score.Int(),
		InterestRate:          decision.RequestedRate,
		CorrectedInterestRate: decision.EffectiveRate,
		TenureMonths:          req.TenureMonths,
		MonthlyInstallment:    decision.Installment,
		Message:               decision.Reason.String(),
	}, nil
}
