package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	"github.com/fintrk/fin_tracker_app/internal/models"
	"github.com/fintrk/fin_tracker_app/internal/utils/mapping"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryWithTx {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, user_id, start_date, end_date, body, created_at, modified_at`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.UserID,
		&m.StartDate,
		&m.EndDate,
		&m.Body,
		&m.CreatedAt,
		&m.ModifiedAt,
	)
	return m, err
}

// SaveBudget inserts a new budget.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m, err := mapping.ToModelBudget(budget)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO budgets (` + budgetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.BudgetID,
		m.UserID,
		m.StartDate,
		m.EndDate,
		m.Body,
		m.CreatedAt,
		m.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", m.BudgetID, err)
	}
	return nil
}

// ReplaceBudget replaces the stored period and body wholesale.
func (r *PgxBudgetRepository) ReplaceBudget(ctx context.Context, budget domain.Budget) error {
	m, err := mapping.ToModelBudget(budget)
	if err != nil {
		return err
	}
	query := `
		UPDATE budgets
		SET start_date = $2, end_date = $3, body = $4, modified_at = $5
		WHERE budget_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.BudgetID, m.StartDate, m.EndDate, m.Body, m.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to replace budget %s: %w", m.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateBudgetBodyInTx persists only the body of a previously locked budget,
// within the caller's transaction.
func (r *PgxBudgetRepository) UpdateBudgetBodyInTx(ctx context.Context, tx pgx.Tx, budgetID string, body domain.BudgetBody, modifiedAt time.Time) error {
	raw, err := mapping.MarshalBudgetBody(body)
	if err != nil {
		return err
	}
	query := `
		UPDATE budgets
		SET body = $2, modified_at = $3
		WHERE budget_id = $1;
	`
	tag, err := tx.Exec(ctx, query, budgetID, raw, modifiedAt)
	if err != nil {
		return fmt.Errorf("failed to update budget body %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteBudget removes a budget permanently.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindBudgetByID retrieves a budget by its unique identifier.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1;
	`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget by id %s: %w", budgetID, err)
	}
	d, err := mapping.ToDomainBudget(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListBudgetsByUser retrieves the user's budgets ordered by start date.
func (r *PgxBudgetRepository) ListBudgetsByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	modelBudgets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Budget, error) {
		return scanBudget(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets: %w", err)
	}

	budgets := make([]domain.Budget, len(modelBudgets))
	for i, m := range modelBudgets {
		d, err := mapping.ToDomainBudget(m)
		if err != nil {
			return nil, err
		}
		budgets[i] = d
	}
	return budgets, nil
}

// FindLatestBudgetByUser retrieves the user's budget with the latest end date.
func (r *PgxBudgetRepository) FindLatestBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		ORDER BY end_date DESC
		LIMIT 1;
	`
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest budget for user %s: %w", userID, err)
	}
	d, err := mapping.ToDomainBudget(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindBudgetForDateForUpdate locates the user's budget whose [start, end)
// period contains the instant and locks its row until the caller's
// transaction ends.
func (r *PgxBudgetRepository) FindBudgetForDateForUpdate(ctx context.Context, tx pgx.Tx, userID string, at time.Time) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND start_date <= $2 AND end_date > $2
		FOR UPDATE;
	`
	m, err := scanBudget(tx.QueryRow(ctx, query, userID, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget for date: %w", err)
	}
	d, err := mapping.ToDomainBudget(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindBudgetByIDForUpdate retrieves a budget by ID and locks its row until
// the caller's transaction ends.
func (r *PgxBudgetRepository) FindBudgetByIDForUpdate(ctx context.Context, tx pgx.Tx, budgetID string) (*domain.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE budget_id = $1
		FOR UPDATE;
	`
	m, err := scanBudget(tx.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget by id %s: %w", budgetID, err)
	}
	d, err := mapping.ToDomainBudget(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
