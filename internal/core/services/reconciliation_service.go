package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// reconciliationService keeps the denormalized per-category actual amounts in
// budgets consistent with the transaction ledger.
type reconciliationService struct {
	budgetRepo portsrepo.BudgetRepositoryWithTx
	txnRepo    portsrepo.TransactionRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
	decider    portssvc.NotificationSvcFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	budgetRepo portsrepo.BudgetRepositoryWithTx,
	txnRepo portsrepo.TransactionRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	decider portssvc.NotificationSvcFacade,
) portssvc.ReconcilerSvc {
	return &reconciliationService{
		budgetRepo: budgetRepo,
		txnRepo:    txnRepo,
		userRepo:   userRepo,
		decider:    decider,
	}
}

var _ portssvc.ReconcilerSvc = (*reconciliationService)(nil)

// ApplyDelta adjusts the actual amount of the category entry matched by the
// transaction snapshot. The budget row is locked for the duration of tx, so
// the ledger write and the budget update commit or roll back together.
// A snapshot dated outside every budget period is untracked and a no-op.
func (s *reconciliationService) ApplyDelta(ctx context.Context, tx pgx.Tx, userID string, snapshot domain.Transaction, op portssvc.DeltaOp) ([]domain.Notification, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !snapshot.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, snapshot.Type)
	}

	budget, err := s.budgetRepo.FindBudgetForDateForUpdate(ctx, tx, userID, snapshot.OccurredAt)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Transaction date outside every budget period, skipping reconciliation",
				slog.String("transaction_id", snapshot.TransactionID),
				slog.Time("occurred_at", snapshot.OccurredAt),
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to locate budget for reconciliation: %w", err)
	}

	entry := budget.Body.EnsureEntry(snapshot.Type, snapshot.Category)
	switch op {
	case portssvc.OpAdd:
		entry.Actual = entry.Actual.Add(snapshot.Amount)
	case portssvc.OpSubtract:
		entry.Actual = entry.Actual.Sub(snapshot.Amount)
	default:
		return nil, fmt.Errorf("%w: unknown delta operation %q", apperrors.ErrValidation, op)
	}

	owner, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve budget owner %s: %w", userID, err)
	}

	notifications := s.decider.EvaluateEntry(owner.Email, snapshot.Type, snapshot.Category, entry)

	if err := s.budgetRepo.UpdateBudgetBodyInTx(ctx, tx, budget.BudgetID, budget.Body, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to persist reconciled budget %s: %w", budget.BudgetID, err)
	}

	logger.Debug("Budget reconciled",
		slog.String("budget_id", budget.BudgetID),
		slog.String("category", snapshot.Category),
		slog.String("type", string(snapshot.Type)),
		slog.String("op", string(op)),
	)
	return notifications, nil
}

// Recompute recalculates every category's actual amount from the full ledger
// and runs the decider on each entry. It does not trust accumulated deltas;
// repeated calls against the same ledger state converge to the same actuals.
func (s *reconciliationService) Recompute(ctx context.Context, budgetID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.budgetRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.budgetRepo.Rollback(ctx, tx)

	budget, err := s.budgetRepo.FindBudgetByIDForUpdate(ctx, tx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to find budget %s for recompute: %w", budgetID, err)
	}

	sums, err := s.txnRepo.SumAmountsByCategoryInTx(ctx, tx, budget.UserID, budget.StartDate, budget.EndDate)
	if err != nil {
		return fmt.Errorf("failed to aggregate ledger for budget %s: %w", budgetID, err)
	}

	owner, err := s.userRepo.FindUserByID(ctx, budget.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve budget owner %s: %w", budget.UserID, err)
	}

	var notifications []domain.Notification
	for _, txnType := range []domain.TransactionType{domain.Income, domain.Expense} {
		categories, ok := budget.Body[txnType]
		if !ok {
			continue
		}
		for _, category := range sortedCategoryNames(categories) {
			entry := categories[category]
			total, ok := sums[portsrepo.TypeCategory{Type: txnType, Category: category}]
			if !ok {
				total = decimal.Zero
			}
			entry.Actual = total
			notifications = append(notifications, s.decider.EvaluateEntry(owner.Email, txnType, category, entry)...)
		}
	}

	if err := s.budgetRepo.UpdateBudgetBodyInTx(ctx, tx, budget.BudgetID, budget.Body, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to persist recomputed budget %s: %w", budgetID, err)
	}

	if err := s.budgetRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Budget recomputed",
		slog.String("budget_id", budgetID),
		slog.Int("notifications", len(notifications)),
	)
	s.decider.Dispatch(ctx, notifications)
	return nil
}

// sortedCategoryNames returns the category names in deterministic order so
// notification output is stable across recompute runs.
func sortedCategoryNames(categories map[string]*domain.CategoryEntry) []string {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
