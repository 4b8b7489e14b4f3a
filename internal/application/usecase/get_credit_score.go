package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/domain/port"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/pkg/observability"
)

// GetCreditScoreUseCase returns a customer's credit score, served from the
// cache when possible.
type GetCreditScoreUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	scorer    *service.CreditScorer
	cache     port.ScoreCache
	clock     port.Clock
	logger    *slog.Logger
}

// NewGetCreditScoreUseCase wires dependencies.
func NewGetCreditScoreUseCase(
	customers port.CustomerRepository,
	loans port.LoanRepository,
	scorer *service.CreditScorer,
	cache port.ScoreCache,
	clock port.Clock,
	logger *slog.Logger,
) *GetCreditScoreUseCase {
	return &GetCreditScoreUseCase{
		customers: customers,
		loans:     loans,
		scorer:    scorer,
		cache:     cache,
		clock:     clock,
		logger:    logger,
	}
}

// Execute scores the customer. Cache failures degrade to a fresh computation.
func (uc *GetCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.CustomerRequest,
) (resp dto.CreditScoreResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "customer.credit_score",
		attribute.String("customer_id", req.CustomerID))
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	customerID, err := parseID("customer ID", req.CustomerID)
	if err != nil {
		return dto.CreditScoreResponse{}, err
	}

	score, hit, cacheErr := uc.cache.Get(ctx, customerID)
	if cacheErr != nil {
		uc.logger.WarnContext(ctx, "score cache read failed", "customer_id", customerID, "error", cacheErr)
	}
	span.SetAttributes(attribute.Bool("cache_hit", hit))
	if hit {
		return dto.CreditScoreResponse{
			CustomerID: customerID.String(),
			Score:      score.Int(),
			ExactScore: score.Value(),
			Cached:     true,
		}, nil
	}

	customer, err := uc.customers.FindByID(ctx, customerID)
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("find customer: %w", err)
	}
	history, err := uc.loans.FindByCustomerID(ctx, customerID)
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("find loans: %w", err)
	}

	score = uc.scorer.Score(customer, history, uc.clock.Now())
	if err := uc.cache.Set(ctx, customerID, score); err != nil {
		uc.logger.WarnContext(ctx, "score cache write failed", "customer_id", customerID, "error", err)
	}

	return dto.CreditScoreResponse{
		CustomerID: customerID.String(),
		Score:      score.Int(),
		ExactScore: score.Value(),
	}, nil
}
