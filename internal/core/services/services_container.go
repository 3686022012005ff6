package services

import (
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	jobs portssvc.JobEnqueuer,
	notifier portssvc.Notifier,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Notification = NewNotificationService(notifier)
	container.Reconciler = NewReconciliationService(repos.BudgetRepo, repos.TxnRepo, repos.UserRepo, container.Notification)
	container.Txn = NewTransactionService(repos.TxnRepo, container.Reconciler, container.Notification)
	container.Budget = NewBudgetService(repos.BudgetRepo, jobs)
	container.User = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.Report = NewReportService(repos.ReportRepo, repos.TxnRepo, repos.UserRepo, jobs, notifier, cfg.ReportsDir)

	return container
}
