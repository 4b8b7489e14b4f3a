package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/credit-engine/internal/domain/service"
)

const meterName = "github.com/bibbank/credit-engine"

// DecisionRecorder implements port.DecisionRecorder with otel instruments.
type DecisionRecorder struct {
	decisions    metric.Int64Counter
	installments metric.Float64Histogram
	scores       metric.Float64Histogram
}

// NewDecisionRecorder registers the decision instruments on provider.
func NewDecisionRecorder(provider metric.MeterProvider) (*DecisionRecorder, error) {
	meter := provider.Meter(meterName)

	decisions, err := meter.Int64Counter("credit_decisions",
		metric.WithDescription("Eligibility decisions by operation and outcome."))
	if err != nil {
		return nil, fmt.Errorf("create decisions counter: %w", err)
	}
	installments, err := meter.Float64Histogram("credit_decision_installment",
		metric.WithDescription("Monthly installment computed for each decision."),
		metric.WithExplicitBucketBoundaries(1000, 5000, 10000, 25000, 50000, 100000))
	if err != nil {
		return nil, fmt.Errorf("create installment histogram: %w", err)
	}
	scores, err := meter.Float64Histogram("credit_decision_score",
		metric.WithDescription("Credit score at decision time."),
		metric.WithExplicitBucketBoundaries(10, 30, 50, 70, 90, 100))
	if err != nil {
		return nil, fmt.Errorf("create score histogram: %w", err)
	}

	return &DecisionRecorder{decisions: decisions, installments: installments, scores: scores}, nil
}

// RecordDecision counts d and observes its installment and score.
func (r *DecisionRecorder) RecordDecision(ctx context.Context, operation string, d service.Decision) {
	opAttr := attribute.String("operation", operation)
	r.decisions.Add(ctx, 1, metric.WithAttributes(
		opAttr,
		attribute.Bool("approved", d.Approved),
		attribute.String("reason", d.Reason.MetricLabel()),
	))
	r.installments.Record(ctx, d.Installment.InexactFloat64(), metric.WithAttributes(opAttr))
	r.scores.Record(ctx, d.Score.Value().InexactFloat64(), metric.WithAttributes(opAttr))
}
