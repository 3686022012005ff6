package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// DeltaOp selects the direction of an incremental reconciliation adjustment.
type DeltaOp string

const (
	OpAdd      DeltaOp = "add"
	OpSubtract DeltaOp = "subtract"
)

// BudgetReaderSvc defines read operations for budget data.
type BudgetReaderSvc interface {
	// GetBudgetByID retrieves a specific budget owned by the user.
	GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error)

	// ListBudgets retrieves the user's budgets ordered by start date.
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
}

// BudgetWriterSvc defines write operations for budget data. The actual
// amounts and notification flags inside the body are owned by the
// reconciliation engine; user writes replace the document wholesale and are
// validated first.
type BudgetWriterSvc interface {
	// CreateBudget validates and persists a new budget, then enqueues a recheck.
	CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.Budget, error)

	// ReplaceBudget validates and replaces an existing budget document.
	ReplaceBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error)

	// DeleteBudget removes a budget permanently.
	DeleteBudget(ctx context.Context, userID string, budgetID string) error

	// RequestRecheck enqueues an asynchronous recheck for the budget.
	RequestRecheck(ctx context.Context, userID string, budgetID string) error
}

// BudgetSvcFacade combines all budget-related service interfaces.
type BudgetSvcFacade interface {
	BudgetReaderSvc
	BudgetWriterSvc
}

// ReconcilerSvc keeps budget actuals consistent with the ledger and runs the
// notification decider.
type ReconcilerSvc interface {
	// ApplyDelta adjusts the actual amount of the category entry matched by
	// the transaction snapshot, inside the caller's database transaction.
	// Transactions dated outside every budget period are a no-op. The returned
	// notifications are computed but not yet delivered; the caller dispatches
	// them after commit.
	ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, snapshot domain.Transaction, op DeltaOp) ([]domain.Notification, error)

	// Recompute recalculates every category's actual amount from the full
	// ledger and runs the decider on each entry. This is the authoritative,
	// drift-correcting path; it does not trust accumulated deltas.
	Recompute(ctx context.Context, budgetID string) error
}
