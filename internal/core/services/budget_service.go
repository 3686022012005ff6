package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
)

// budgetService provides budget document management. Writes validate the
// period and body shape, then hand the stored document to the asynchronous
// recheck path so the actual amounts are recomputed from the ledger.
type budgetService struct {
	budgetRepo portsrepo.BudgetRepositoryFacade
	jobs       portssvc.JobEnqueuer
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, jobs portssvc.JobEnqueuer) portssvc.BudgetSvcFacade {
	return &budgetService{budgetRepo: budgetRepo, jobs: jobs}
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// GetBudgetByID retrieves a budget the user owns.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	return s.findOwnedBudget(ctx, userID, budgetID)
}

// ListBudgets retrieves the user's budgets ordered by start date.
func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgetsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// CreateBudget validates and persists a new budget period. The new period
// must begin after the user's latest one ends, so periods stay sequential
// and non-overlapping. A recheck job is enqueued so the stored actuals are
// reconciled against any pre-existing transactions.
func (s *budgetService) CreateBudget(ctx context.Context, userID string, req dto.CreateBudgetRequest) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	body, err := validateBudgetBody(req.Budget)
	if err != nil {
		return nil, err
	}
	if err := validatePeriod(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	latest, err := s.budgetRepo.FindLatestBudgetByUser(ctx, userID)
	switch {
	case err == nil:
		if !req.StartDate.After(latest.EndDate) {
			return nil, apperrors.NewValidationError("startDate",
				fmt.Sprintf("must be after the end of the previous budget period (%s)", latest.EndDate.Format("2006-01-02")))
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// First budget for this user.
	default:
		return nil, err
	}

	now := time.Now().UTC()
	budget := domain.Budget{
		BudgetID:   uuid.NewString(),
		UserID:     userID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		Body:       body,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	if err := s.jobs.EnqueueBudgetRecheck(ctx, budget.BudgetID); err != nil {
		// The budget is stored either way; the next ledger write or a manual
		// recheck will reconcile it.
		logger.Error("Failed to enqueue budget recheck", slog.String("budget_id", budget.BudgetID), slog.String("error", err.Error()))
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID))
	return &budget, nil
}

// ReplaceBudget validates and replaces an existing budget document wholesale,
// then enqueues a recheck to rebuild the actuals from the ledger.
func (s *budgetService) ReplaceBudget(ctx context.Context, userID string, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	body, err := validateBudgetBody(req.Budget)
	if err != nil {
		return nil, err
	}
	if err := validatePeriod(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	existing, err := s.findOwnedBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.StartDate = req.StartDate.UTC()
	updated.EndDate = req.EndDate.UTC()
	updated.Body = body
	updated.ModifiedAt = time.Now().UTC()

	if err := s.budgetRepo.ReplaceBudget(ctx, updated); err != nil {
		logger.Error("Failed to replace budget", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to replace budget %s: %w", budgetID, err)
	}

	if err := s.jobs.EnqueueBudgetRecheck(ctx, budgetID); err != nil {
		logger.Error("Failed to enqueue budget recheck", slog.String("budget_id", budgetID), slog.String("error", err.Error()))
	}

	logger.Info("Budget replaced", slog.String("budget_id", budgetID))
	return &updated, nil
}

// DeleteBudget removes a budget permanently.
func (s *budgetService) DeleteBudget(ctx context.Context, userID string, budgetID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.findOwnedBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}

	logger.Info("Budget deleted", slog.String("budget_id", budgetID))
	return nil
}

// RequestRecheck enqueues an asynchronous full recompute for the budget.
func (s *budgetService) RequestRecheck(ctx context.Context, userID string, budgetID string) error {
	if _, err := s.findOwnedBudget(ctx, userID, budgetID); err != nil {
		return err
	}
	if err := s.jobs.EnqueueBudgetRecheck(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to enqueue budget recheck: %w", err)
	}
	return nil
}

func (s *budgetService) findOwnedBudget(ctx context.Context, userID string, budgetID string) (*domain.Budget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return budget, nil
}

// validatePeriod rejects empty or inverted periods.
func validatePeriod(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.NewValidationError("endDate", "must be after startDate")
	}
	return nil
}

// validateBudgetBody checks the document shape and converts it to the domain
// form. Top-level keys must be transaction types, and every entry needs
// non-negative numeric forecast and actual values. Errors are keyed by the
// JSON path of the offending field.
func validateBudgetBody(payload dto.BudgetBodyPayload) (domain.BudgetBody, error) {
	body := make(domain.BudgetBody, len(payload))
	for key, categories := range payload {
		txnType := domain.TransactionType(key)
		if !txnType.IsValid() {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("budget.%s", key), "must be 'income' or 'expense'")
		}
		entries := make(map[string]*domain.CategoryEntry, len(categories))
		for name, entry := range categories {
			if entry.Forecast == nil {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("budget.%s.%s.forecast", key, name), "is required and must be numeric")
			}
			if entry.Actual == nil {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("budget.%s.%s.actual", key, name), "is required and must be numeric")
			}
			if entry.Forecast.IsNegative() {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("budget.%s.%s.forecast", key, name), "must not be negative")
			}
			entries[name] = &domain.CategoryEntry{
				Forecast:     *entry.Forecast,
				Actual:       *entry.Actual,
				IsNotified:   entry.IsNotified,
				DateNotified: entry.DateNotified,
			}
		}
		body[txnType] = entries
	}
	return body, nil
}
