package pgsql

import (
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxnRepo:    newPgxTransactionRepository(dbPool),
		BudgetRepo: newPgxBudgetRepository(dbPool),
		UserRepo:   newPgxUserRepository(dbPool),
		ReportRepo: newPgxReportRepository(dbPool),
	}
}
