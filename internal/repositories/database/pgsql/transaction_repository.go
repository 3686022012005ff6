package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	"github.com/fintrk/fin_tracker_app/internal/models"
	"github.com/fintrk/fin_tracker_app/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, amount, transaction_type, category, occurred_at, created_at, modified_at`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.Amount,
		&m.Type,
		&m.Category,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.ModifiedAt,
	)
	return m, err
}

// SaveTransactionInTx inserts a new transaction within the caller's database
// transaction.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.Amount,
		m.Type,
		m.Category,
		m.OccurredAt,
		m.CreatedAt,
		m.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransactionInTx replaces the mutable columns of a transaction within
// the caller's database transaction.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET amount = $2, transaction_type = $3, category = $4, occurred_at = $5, modified_at = $6
		WHERE transaction_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.Amount,
		m.Type,
		m.Category,
		m.OccurredAt,
		m.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransactionInTx removes a transaction within the caller's database
// transaction.
func (r *PgxTransactionRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its unique identifier.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by id %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByUser retrieves the user's transactions newest first. The
// optional bounds restrict occurred_at to [from, to).
func (r *PgxTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
		  AND ($3::timestamptz IS NULL OR occurred_at < $3)
		ORDER BY occurred_at DESC, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

// SumAmountsByCategoryInTx aggregates transaction amounts per (type, category)
// pair over occurred_at in [from, to), within the caller's transaction so the
// sums are consistent with any rows it already locked.
func (r *PgxTransactionRepository) SumAmountsByCategoryInTx(ctx context.Context, tx pgx.Tx, userID string, from, to time.Time) (map[portsrepo.TypeCategory]decimal.Decimal, error) {
	query := `
		SELECT transaction_type, category, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		GROUP BY transaction_type, category;
	`
	rows, err := tx.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	defer rows.Close()

	sums := make(map[portsrepo.TypeCategory]decimal.Decimal)
	for rows.Next() {
		var (
			txnType  string
			category string
			total    decimal.Decimal
		)
		if err := rows.Scan(&txnType, &category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		sums[portsrepo.TypeCategory{Type: domain.TransactionType(txnType), Category: category}] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	return sums, nil
}
