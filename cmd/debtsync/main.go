// Command debtsync recomputes every customer's current debt from their
// active loans and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/credit-engine/internal/application/dto"
	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/infrastructure/clock"
	"github.com/bibbank/credit-engine/internal/infrastructure/config"
	"github.com/bibbank/credit-engine/internal/infrastructure/kafka"
	pgRepo "github.com/bibbank/credit-engine/internal/infrastructure/persistence/postgres"
	pkgkafka "github.com/bibbank/credit-engine/pkg/kafka"
	"github.com/bibbank/credit-engine/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-engine/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("debtsync failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	batchSize := flag.Int("batch-size", cfg.DebtSyncBatchSize, "customers fetched per page")
	flag.Parse()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName + "-debtsync",
	})

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName + "-debtsync",
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()

	uc := usecase.NewRecalculateDebtUseCase(
		pgRepo.NewCustomerRepo(pool),
		pgRepo.NewTxManager(pool),
		kafka.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic, logger),
		clock.System{},
		logger,
	)

	start := time.Now()
	resp, err := uc.Execute(ctx, dto.RecalculateDebtRequest{BatchSize: *batchSize})
	logger.Info("debt recalculation finished",
		"scanned", resp.Scanned,
		"updated", resp.Updated,
		"failed", resp.Failed,
		"duration", time.Since(start),
	)
	if err != nil {
		return err
	}
	if resp.Failed > 0 {
		return fmt.Errorf("%d customers failed", resp.Failed)
	}
	return nil
}
