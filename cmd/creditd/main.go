package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bibbank/credit-engine/internal/application/usecase"
	"github.com/bibbank/credit-engine/internal/domain/service"
	"github.com/bibbank/credit-engine/internal/infrastructure/cache"
	"github.com/bibbank/credit-engine/internal/infrastructure/clock"
	"github.com/bibbank/credit-engine/internal/infrastructure/config"
	"github.com/bibbank/credit-engine/internal/infrastructure/kafka"
	"github.com/bibbank/credit-engine/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/credit-engine/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/credit-engine/internal/presentation/grpc"
	"github.com/bibbank/credit-engine/internal/presentation/rest"
	pkgkafka "github.com/bibbank/credit-engine/pkg/kafka"
	"github.com/bibbank/credit-engine/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-engine/pkg/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("credit-engine exited", "error", err)
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

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})

	logger.Info("starting credit-engine",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:       cfg.ServiceName,
		RuntimeCollectors: true,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Database connection.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Wire infrastructure adapters.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ClientID:      cfg.Kafka.ClientID,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	kafkaProducer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer kafkaProducer.Close()
	publisher := kafka.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.EventsTopic, logger)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	scoreCache := cache.NewRedisScoreCache(redisClient, cfg.Redis.ScoreTTL)

	recorder, err := metrics.NewDecisionRecorder(meterProvider)
	if err != nil {
		return fmt.Errorf("create decision recorder: %w", err)
	}

	store := pgRepo.NewStore(pool)
	txManager := pgRepo.NewTxManager(pool)
	clk := clock.System{}
	scorer := service.NewCreditScorer()
	engine := service.NewEligibilityEngine(scorer)

	// Wire use cases.
	registerUC := usecase.NewRegisterCustomerUseCase(store.Customers(), publisher, clk, logger)
	checkUC := usecase.NewCheckEligibilityUseCase(store.Customers(), store.Loans(), engine, recorder, clk)
	createUC := usecase.NewCreateLoanUseCase(txManager, engine, publisher, scoreCache, recorder, clk, logger)
	getLoanUC := usecase.NewGetLoanUseCase(store.Customers(), store.Loans())
	listLoansUC := usecase.NewListCustomerLoansUseCase(store.Customers(), store.Loans(), clk)
	scoreUC := usecase.NewGetCreditScoreUseCase(store.Customers(), store.Loans(), scorer, scoreCache, clk, logger)
	repaymentUC := usecase.NewRecordRepaymentUseCase(store.Loans(), txManager, publisher, scoreCache, clk, logger)

	// Repayment consumer.
	consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.RepaymentsTopic,
		kafka.NewRepaymentHandler(repaymentUC, logger), logger)
	if err != nil {
		return fmt.Errorf("create repayment consumer: %w", err)
	}
	defer consumer.Close()

	// gRPC server.
	handler := grpcPresentation.NewCreditHandler(registerUC, checkUC, createUC, getLoanUC, listLoansUC, scoreUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, grpcPresentation.ServerConfig{
		ServiceName: cfg.ServiceName,
		Reflection:  cfg.GRPC.Reflection,
		TLSCertFile: cfg.GRPC.TLSCertFile,
		TLSKeyFile:  cfg.GRPC.TLSKeyFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, pool, metricsHandler, logger).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("repayment consumer error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
		cancel()
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-engine stopped")
	return runErr
}
