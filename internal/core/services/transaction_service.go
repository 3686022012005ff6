package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
)

// transactionService provides ledger operations. Every mutation reconciles
// the overlapping budget inside the same database transaction as the ledger
// write, so the two never diverge.
type transactionService struct {
	txnRepo         portsrepo.TransactionRepositoryWithTx
	reconciler      portssvc.ReconcilerSvc
	notificationSvc portssvc.NotificationSvcFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	reconciler portssvc.ReconcilerSvc,
	notificationSvc portssvc.NotificationSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:         txnRepo,
		reconciler:      reconciler,
		notificationSvc: notificationSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// validateAmount rejects non-positive amounts with a field-keyed error.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return apperrors.NewValidationError("amount", "must be greater than zero")
	}
	return nil
}

// CreateTransaction persists a new ledger entry and reconciles the budget
// whose period contains its date, if any.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("type", "must be 'income' or 'expense'")
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		OccurredAt:    req.OccurredAt.UTC(),
		CreatedAt:     now,
		ModifiedAt:    now,
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	notifications, err := s.reconciler.ApplyDelta(ctx, tx, userID, txn, portssvc.OpAdd)
	if err != nil {
		logger.Error("Reconciliation failed, rolling back ledger write", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	s.notificationSvc.Dispatch(ctx, notifications)
	return &txn, nil
}

// UpdateTransaction replaces a transaction's mutable fields. Reconciliation
// treats the change as delete-old plus create-new: the old snapshot is
// subtracted from its budget and the new one added to its own, which may be a
// different budget when the date moved across a period boundary. Both
// adjustments and the ledger write share one database transaction.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("type", "must be 'income' or 'expense'")
	}

	old, err := s.findOwnedTransaction(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated := *old
	updated.Amount = req.Amount
	updated.Type = req.Type
	updated.Category = req.Category
	updated.OccurredAt = req.OccurredAt.UTC()
	updated.ModifiedAt = time.Now().UTC()

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.UpdateTransactionInTx(ctx, tx, updated); err != nil {
		logger.Error("Failed to update transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	subtracted, err := s.reconciler.ApplyDelta(ctx, tx, userID, *old, portssvc.OpSubtract)
	if err != nil {
		return nil, err
	}
	added, err := s.reconciler.ApplyDelta(ctx, tx, userID, updated, portssvc.OpAdd)
	if err != nil {
		return nil, err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	s.notificationSvc.Dispatch(ctx, append(subtracted, added...))
	return &updated, nil
}

// DeleteTransaction removes a transaction permanently, subtracting the
// pre-deletion snapshot from its budget.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	old, err := s.findOwnedTransaction(ctx, userID, transactionID)
	if err != nil {
		return err
	}

	tx, err := s.txnRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.txnRepo.Rollback(ctx, tx)

	if err := s.txnRepo.DeleteTransactionInTx(ctx, tx, transactionID); err != nil {
		logger.Error("Failed to delete transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	notifications, err := s.reconciler.ApplyDelta(ctx, tx, userID, *old, portssvc.OpSubtract)
	if err != nil {
		return err
	}

	if err := s.txnRepo.Commit(ctx, tx); err != nil {
		return err
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	s.notificationSvc.Dispatch(ctx, notifications)
	return nil
}

// GetTransactionByID retrieves a transaction the user owns.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	return s.findOwnedTransaction(ctx, userID, transactionID)
}

// ListTransactions retrieves the user's transactions, optionally restricted
// to a date range.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	transactions, err := s.txnRepo.ListTransactionsByUser(ctx, userID, params.From, params.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// findOwnedTransaction fetches a transaction and hides other users' entries
// behind ErrNotFound.
func (s *transactionService) findOwnedTransaction(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}
