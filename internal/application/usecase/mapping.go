package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/event"
	"github.com/bibbank/credit-engine/internal/domain/model"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
)

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, model.InvalidInputf("%s %q is not a valid identifier", field, raw)
	}
	return id, nil
}

func toLoanRequest(req dto.LoanRequest) service.LoanRequest {
	return service.LoanRequest{
		Amount:       req.LoanAmount,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
	}
}

func toCustomerResponse(c model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		CustomerID:    c.ID().String(),
		Name:          c.Name(),
		Age:           c.Age(),
		PhoneNumber:   c.PhoneNumber(),
		MonthlyIncome: c.MonthlyIncome(),
		ApprovedLimit: c.ApprovedLimit(),
		CurrentDebt:   c.CurrentDebt(),
		CreatedAt:     c.CreatedAt(),
	}
}

func toCustomerSummary(c model.Customer) dto.CustomerSummary {
	return dto.CustomerSummary{
		CustomerID:  c.ID().String(),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		PhoneNumber: c.PhoneNumber(),
		Age:         c.Age(),
	}
}

func toLoanItem(l model.Loan) dto.LoanItem {
	return dto.LoanItem{
		LoanID:             l.ID().String(),
		LoanAmount:         l.Principal(),
		InterestRate:       l.InterestRate(),
		MonthlyInstallment: l.MonthlyInstallment(),
		RepaymentsLeft:     l.RepaymentsLeft(),
		EndDate:            l.EndDate(),
	}
}

// publishCommitted publishes events of already committed state. A failure is
// logged rather than returned, since the caller cannot undo the write.
func publishCommitted(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, events ...event.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish domain events",
			"count", len(events),
			"first_type", events[0].EventType(),
			"error", err,
		)
	}
}
