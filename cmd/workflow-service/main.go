package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/proc-track/workflow-service/internal/config"
	"github.com/proc-track/workflow-service/internal/delivery/httpapi"
	"github.com/proc-track/workflow-service/internal/dispatch"
	"github.com/proc-track/workflow-service/internal/infrastructure/kafka"
	"github.com/proc-track/workflow-service/internal/infrastructure/metrics"
	"github.com/proc-track/workflow-service/internal/infrastructure/migrate"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres"
	"github.com/proc-track/workflow-service/internal/infrastructure/postgres/repository"
	"github.com/proc-track/workflow-service/internal/infrastructure/redis"
	"github.com/proc-track/workflow-service/internal/usecase/timeline"
	"github.com/proc-track/workflow-service/internal/usecase/transaction"
	"github.com/proc-track/workflow-service/internal/usecase/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)
	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.TrackerDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.TrackerDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}
	// Init redis lock client
	locker := redis.MustInitLocker(cfg)

	// Init kafka publisher
	var publisher *kafka.Publisher
	if cfg.KafkaService.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
		publisher = kafka.NewPublisher(brokers, cfg.KafkaService.Topic)
		defer publisher.Close()
	}

	// Init repositories
	txnRepo := repository.NewDefaultTransactionRepository(db)
	workflowRepo := repository.NewDefaultWorkflowRepository(db)
	procurementRepo := repository.NewDefaultProcurementRepository(db)
	directoryRepo := repository.NewDefaultDirectoryRepository(db)
	notificationRepo := repository.NewDefaultNotificationRepository(db)

	// Init event dispatch
	dispatcher := dispatch.NewDispatcher()
	listener := dispatch.NewNotificationListener(directoryRepo, notificationRepo, publisher, time.Now)
	dispatcher.Subscribe(listener, listener.EventNames()...)

	workflowMetrics := metrics.NewWorkflowMetrics()

	// Init transaction usecase
	uc, err := transaction.NewDefaultTransactionUsecase(
		txnRepo,
		workflowRepo,
		procurementRepo,
		directoryRepo,
		dispatcher,
		workflowMetrics,
		time.Now,
		locker,
		transaction.Options{
			IdleThresholdDays: cfg.WorkflowConfig.IdleThresholdDays,
			OverdueDebounce:   cfg.WorkflowConfig.OverdueDebounce,
			SweepInterval:     cfg.WorkflowConfig.SweepInterval,
		},
	)
	if err != nil {
		log.Fatalf("failed to init transaction usecase: %v", err)
	}
	// Init workflow usecase
	workflowUc := workflow.NewDefaultWorkflowUsecase(workflowRepo, time.Now)
	// Init timeline calculator
	calculator := timeline.NewCalculator(txnRepo, workflowRepo, directoryRepo, time.Now, cfg.WorkflowConfig.IdleThresholdDays)

	// HTTP delivery
	transactionHandler := httpapi.NewTransactionHandler(uc, calculator)
	workflowHandler := httpapi.NewWorkflowHandler(workflowUc)
	router := httpapi.NewRouter(transactionHandler, workflowHandler)

	// Overdue sweep worker
	go uc.StartOverdueMonitor(context.Background())

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("workflow service started", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to serve http: %v", err)
	}
}

func setupLogger(cfg *config.TrackerConfig) {
	level := slog.LevelInfo
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
