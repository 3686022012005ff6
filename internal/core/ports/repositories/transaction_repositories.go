package repositories

import (
	"context"
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TypeCategory identifies one (transaction type, category) pair for aggregate queries.
type TypeCategory struct {
	Type     domain.TransactionType
	Category string
}

// TransactionReader defines read operations for ledger data.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves the user's transactions, newest first,
	// optionally restricted to occurred-at within [from, to).
	ListTransactionsByUser(ctx context.Context, userID string, from, to *time.Time) ([]domain.Transaction, error)

	// SumAmountsByCategoryInTx aggregates transaction amounts per
	// (type, category) for the user, over occurred-at within [from, to),
	// reading through the caller's transaction so the recompute path sees a
	// consistent ledger snapshot.
	SumAmountsByCategoryInTx(ctx context.Context, tx pgx.Tx, userID string, from, to time.Time) (map[TypeCategory]decimal.Decimal, error)
}

// TransactionWriter defines write operations for ledger data. The InTx
// variants participate in a caller-owned database transaction so a ledger
// write and the budget reconciliation it triggers commit or roll back together.
type TransactionWriter interface {
	// SaveTransactionInTx persists a new transaction.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// UpdateTransactionInTx updates an existing transaction.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// DeleteTransactionInTx removes a transaction permanently.
	DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error
}

// TransactionRepositoryFacade combines all ledger-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
