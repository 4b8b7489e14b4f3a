package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/model"
	pkgkafka "github.com/bibbank/credit-engine/pkg/kafka"
)

// RepaymentRecorder is satisfied by *usecase.RecordRepaymentUseCase.
type RepaymentRecorder interface {
	Execute(ctx context.Context, req dto.RecordRepaymentRequest) (dto.RepaymentResponse, error)
}

// NewRepaymentHandler returns a consumer handler that books repayment events
// from the payments system. A message_id header is used when the payload
// carries none. Errors retrying cannot fix are marked pkgkafka.ErrPermanent.
func NewRepaymentHandler(recorder RepaymentRecorder, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var req dto.RecordRepaymentRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			return fmt.Errorf("decode repayment at offset %d: %w: %v", msg.Offset, pkgkafka.ErrPermanent, err)
		}
		if id, ok := msg.Headers["message_id"]; ok && req.MessageID == "" {
			req.MessageID = id
		}

		resp, err := recorder.Execute(ctx, req)
		if err != nil {
			if isPermanent(err) {
				return fmt.Errorf("%w: %w", pkgkafka.ErrPermanent, err)
			}
			return err
		}

		logger.InfoContext(ctx, "repayment recorded",
			"loan_id", resp.LoanID,
			"emis_paid_on_time", resp.EmisPaidOnTime,
			"repayments_left", resp.RepaymentsLeft,
			"duplicate", resp.Duplicate,
		)
		return nil
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, model.ErrInvalidInput) ||
		errors.Is(err, model.ErrLoanNotFound) ||
		errors.Is(err, model.ErrLoanFullyRepaid)
}
