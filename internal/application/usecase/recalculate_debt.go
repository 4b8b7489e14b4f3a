package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/pkg/observability"
)

const defaultDebtBatchSize = 500

// RecalculateDebtUseCase recomputes every customer's current debt from
// their active loans: the unpaid principal, floored at zero.
type RecalculateDebtUseCase struct {
	customers port.CustomerRepository
	tx        port.TxManager
	publisher port.EventPublisher
	clock     port.Clock
	logger    *slog.Logger
}

// NewRecalculateDebtUseCase wires dependencies.
func NewRecalculateDebtUseCase(
	customers port.CustomerRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	clock port.Clock,
	logger *slog.Logger,
) *RecalculateDebtUseCase {
	return &RecalculateDebtUseCase{
		customers: customers,
		tx:        tx,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute sweeps all customers in ID order. A failure on one customer is
// logged and counted; the sweep continues. Context cancellation stops it.
func (uc *RecalculateDebtUseCase) Execute(
	ctx context.Context,
	req dto.RecalculateDebtRequest,
) (resp dto.RecalculateDebtResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "customer.recalculate_debt")
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	batch := req.BatchSize
	if batch <= 0 {
		batch = defaultDebtBatchSize
	}

	after := uuid.Nil
	for {
		page, err := uc.customers.List(ctx, after, batch)
		if err != nil {
			return resp, fmt.Errorf("list customers: %w", err)
		}
		for _, c := range page {
			if err := ctx.Err(); err != nil {
				return resp, err
			}
			resp.Scanned++
			changed, err := uc.recalculate(ctx, c.ID())
			switch {
			case err != nil:
				resp.Failed++
				uc.logger.ErrorContext(ctx, "debt recalculation failed", "customer_id", c.ID(), "error", err)
			case changed:
				resp.Updated++
			}
		}
		if len(page) < batch {
			return resp, nil
		}
		after = page[len(page)-1].ID()
	}
}

func (uc *RecalculateDebtUseCase) recalculate(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var events []event.DomainEvent
	err := uc.tx.WithinCustomerLock(ctx, customerID, func(ctx context.Context, store port.Store) error {
		events = nil

		customer, err := store.Customers().FindByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("find customer: %w", err)
		}
		history, err := store.Loans().FindByCustomerID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("find loans: %w", err)
		}

		now := uc.clock.Now().UTC()
		updated := customer.WithCurrentDebt(history.OutstandingDebt(now), now)
		if updated.CurrentDebt().Equal(customer.CurrentDebt()) {
			return nil
		}
		if err := store.Customers().Save(ctx, updated); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}
		events = updated.DomainEvents()
		return nil
	})
	if err != nil {
		return false, err
	}

	publishCommitted(ctx, uc.publisher, uc.logger, events...)
	return len(events) > 0, nil
}
