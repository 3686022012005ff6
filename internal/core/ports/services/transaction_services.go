package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger data.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction owned by the user.
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves the user's transactions.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for ledger data. Every
// mutation reconciles the overlapping budget within the same database
// transaction as the ledger write.
type TransactionWriterSvc interface {
	// CreateTransaction persists a new transaction and reconciles the budget.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction replaces a transaction's mutable fields and reconciles
	// the budgets affected by both the old and the new snapshot.
	UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reconciles with the
	// pre-deletion snapshot.
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error
}

// TransactionSvcFacade combines all ledger-related service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
