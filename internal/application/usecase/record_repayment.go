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

// RecordRepaymentUseCase books an on-time installment reported by the
// payments system.
type RecordRepaymentUseCase struct {
	loans     port.LoanRepository
	tx        port.TxManager
	publisher port.EventPublisher
	cache     port.ScoreCache
	clock     port.Clock
	logger    *slog.Logger
}

// NewRecordRepaymentUseCase wires dependencies.
func NewRecordRepaymentUseCase(
	loans port.LoanRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	cache port.ScoreCache,
	clock port.Clock,
	logger *slog.Logger,
) *RecordRepaymentUseCase {
	return &RecordRepaymentUseCase{
		loans:     loans,
		tx:        tx,
		publisher: publisher,
		cache:     cache,
		clock:     clock,
		logger:    logger,
	}
}

// Execute increments the loan's on-time installment count once per message.
// A redelivered message is acknowledged without effect.
func (uc *RecordRepaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordRepaymentRequest,
) (resp dto.RepaymentResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "loan.record_repayment",
		attribute.String("loan_id", req.LoanID))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	messageID, err := parseID("message ID", req.MessageID)
	if err != nil {
		return dto.RepaymentResponse{}, err
	}
	loanID, err := parseID("loan ID", req.LoanID)
	if err != nil {
		return dto.RepaymentResponse{}, err
	}

	// The owner is needed to take the customer lock.
	current, err := uc.loans.FindByID(ctx, loanID)
	if err != nil {
		return dto.RepaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}
	customerID := current.CustomerID()

	var (
		loan      model.Loan
		duplicate bool
	)
	err = uc.tx.WithinCustomerLock(ctx, customerID, func(ctx context.Context, store port.Store) error {
		now := uc.clock.Now().UTC()

		fresh, err := store.Inbox().MarkProcessed(ctx, messageID, now)
		if err != nil {
			return fmt.Errorf("mark message processed: %w", err)
		}
		loan, err = store.Loans().FindByID(ctx, loanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}
		if duplicate = !fresh; duplicate {
			return nil
		}

		loan, err = loan.RecordOnTimeRepayment(now)
		if err != nil {
			return fmt.Errorf("record repayment: %w", err)
		}
		if err := store.Loans().Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.RepaymentResponse{}, err
	}

	resp = dto.RepaymentResponse{
		LoanID:         loanID.String(),
		EmisPaidOnTime: loan.EmisPaidOnTime(),
		RepaymentsLeft: loan.RepaymentsLeft(),
		Duplicate:      duplicate,
	}
	if duplicate {
		uc.logger.InfoContext(ctx, "ignoring duplicate repayment", "message_id", messageID, "loan_id", loanID)
		return resp, nil
	}

	publishCommitted(ctx, uc.publisher, uc.logger, loan.DomainEvents()...)
	if err := uc.cache.Invalidate(ctx, customerID); err != nil {
		uc.logger.WarnContext(ctx, "failed to invalidate cached score", "customer_id", customerID, "error", err)
	}
	return resp, nil
}
