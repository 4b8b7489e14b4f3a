package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/pkg/observability"
)

// CreateLoanUseCase decides a loan request and, when approved, materialises
// the loan and books its principal as customer debt.
type CreateLoanUseCase struct {
	tx        port.TxManager
	engine    *service.EligibilityEngine
	publisher port.EventPublisher
	cache     port.ScoreCache
	recorder  port.DecisionRecorder
	clock     port.Clock
	logger    *slog.Logger
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	tx port.TxManager,
	engine *service.EligibilityEngine,
	publisher port.EventPublisher,
	cache port.ScoreCache,
	recorder port.DecisionRecorder,
	clock port.Clock,
	logger *slog.Logger,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		tx:        tx,
		engine:    engine,
		publisher: publisher,
		cache:     cache,
		recorder:  recorder,
		clock:     clock,
		logger:    logger,
	}
}

// Execute runs the decision and the writes it implies under the customer
// lock, so concurrent requests for one customer see each other's loans.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.LoanRequest,
) (resp dto.CreateLoanResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "loan.create",
		attribute.String("customer_id", req.CustomerID))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	customerID, err := parseID("customer ID", req.CustomerID)
	if err != nil {
		return dto.CreateLoanResponse{}, err
	}

	var (
		decision service.Decision
		loan     model.Loan
		events   []event.DomainEvent
	)
	err = uc.tx.WithinCustomerLock(ctx, customerID, func(ctx context.Context, store port.Store) error {
		// Reset for retries of the unit of work.
		loan, events = model.Loan{}, nil

		customer, err := store.Customers().FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}
		history, err := store.Loans().FindByCustomerID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("find loans: %w", err)
		}

		now := uc.clock.Now().UTC()
		decision, err = uc.engine.Decide(customer, history, toLoanRequest(req), now)
		if err != nil {
			return fmt.Errorf("decide eligibility: %w", err)
		}

		if !decision.Approved {
			events = append(events, event.NewLoanRejected(
				customerID, decision.Reason.String(), req.LoanAmount,
				decision.RequestedRate, decision.EffectiveRate, decision.Installment,
				decision.Score.Value(), req.TenureMonths, now,
			))
			return nil
		}

		loan, err = model.NewLoan(customerID, req.LoanAmount, decision.EffectiveRate,
			decision.Installment, req.TenureMonths, now, now)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		if err := store.Loans().Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		customer, err = customer.AddDebt(req.LoanAmount, now)
		if err != nil {
			return fmt.Errorf("add debt: %w", err)
		}
		if err := store.Customers().Save(ctx, customer); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}

		events = append(events, loan.DomainEvents()...)
		return nil
	})
	if err != nil {
		return dto.CreateLoanResponse{}, err
	}

	uc.recorder.RecordDecision(ctx, "create", decision)
	publishCommitted(ctx, uc.publisher, uc.logger, events...)

	resp = dto.CreateLoanResponse{
		CustomerID:         customerID.String(),
		LoanApproved:       decision.Approved,
		InterestRate:       decision.EffectiveRate,
		MonthlyInstallment: decision.Installment,
		Message:            decision.Reason.String(),
	}
	if decision.Approved {
		resp.LoanID = loan.ID().String()
		span.SetAttributes(attribute.String("loan_id", resp.LoanID))
		if err := uc.cache.Invalidate(ctx, customerID); err != nil {
			uc.logger.WarnContext(ctx, "failed to invalidate cached score",
				"customer_id", customerID, "error", err)
		}
	}
	return resp, nil
}
