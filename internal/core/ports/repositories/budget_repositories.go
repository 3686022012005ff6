package repositories

import (
	"context"
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// BudgetReader defines read operations for budget data.
type BudgetReader interface {
	// FindBudgetByID retrieves a specific budget by its unique identifier.
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)

	// ListBudgetsByUser retrieves the user's budgets ordered by start date.
	ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error)

	// FindLatestBudgetByUser retrieves the user's budget with the latest end
	// date, or ErrNotFound if the user has none.
	FindLatestBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error)
}

// BudgetLocker defines row-locked reads used by the reconciliation paths.
// Concurrent writers to the same budget serialize on the row lock.
type BudgetLocker interface {
	// FindBudgetForDateForUpdate locates the user's budget whose
	// [start, end) period contains the given instant and locks its row for
	// the duration of tx. Returns ErrNotFound when no period matches.
	FindBudgetForDateForUpdate(ctx context.Context, tx pgx.Tx, userID string, at time.Time) (*domain.Budget, error)

	// FindBudgetByIDForUpdate retrieves a budget by ID and locks its row.
	FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error)
}

// BudgetWriter defines write operations for budget data.
type BudgetWriter interface {
	// SaveBudget persists a new budget.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// ReplaceBudget replaces the stored document (period and body) wholesale.
	ReplaceBudget(ctx context.Context, budget domain.Budget) error

	// UpdateBudgetBodyInTx persists only the body of a previously locked
	// budget, within the caller's transaction.
	UpdateBudgetBodyInTx(ctx context.Context, tx pgx.Tx, budgetID string, body domain.BudgetBody, modifiedAt time.Time) error

	// DeleteBudget removes a budget permanently.
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetLocker
	BudgetWriter
}

// BudgetRepositoryWithTx extends BudgetRepositoryFacade with transaction capabilities.
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
