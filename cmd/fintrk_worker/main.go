package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/core/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
	"github.com/fintrk/fin_tracker_app/internal/platform/config"
	"github.com/fintrk/fin_tracker_app/internal/platform/mailer"
	"github.com/fintrk/fin_tracker_app/internal/platform/queue"
	"github.com/fintrk/fin_tracker_app/internal/repositories/database/pgsql"
	"github.com/fintrk/fin_tracker_app/pkg/database"
)

// jobHandler routes queued jobs to the services that execute them.
type jobHandler struct {
	reconciler portssvc.ReconcilerSvc
	reports    portssvc.ReportSvcFacade
}

func (h *jobHandler) HandleBudgetRecheck(ctx context.Context, payload queue.BudgetRecheckPayload) error {
	return h.reconciler.Recompute(ctx, payload.BudgetID)
}

func (h *jobHandler) HandleReport(ctx context.Context, job dto.ReportJob) error {
	// RunReport records its own outcome; a report failure is not a job failure.
	h.reports.RunReport(ctx, job)
	return nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	queueClient, err := queue.NewClient(cfg.AMQPURL, cfg.JobExchange, cfg.JobQueue)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer queueClient.Close()

	notifier := mailer.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, queueClient, notifier)

	handler := &jobHandler{
		reconciler: serviceContainer.Reconciler,
		reports:    serviceContainer.Report,
	}

	// Jobs run outside any HTTP request; give them the process logger.
	jobCtx := middleware.ContextWithLogger(ctx, logger)

	logger.Info("Worker starting", slog.String("queue", cfg.JobQueue))
	if err := queueClient.Consume(jobCtx, logger, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Worker stopped.")
}
