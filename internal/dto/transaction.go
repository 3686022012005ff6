package dto

import (
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the payload for recording a transaction.
type CreateTransactionRequest struct {
	Amount     decimal.Decimal        `json:"amount" binding:"required"`
	Type       domain.TransactionType `json:"type" binding:"required,transactiontype"`
	Category   string                 `json:"category" binding:"required,max=100"`
	OccurredAt time.Time              `json:"occurredAt" binding:"required"`
}

// UpdateTransactionRequest replaces all mutable fields of a transaction.
type UpdateTransactionRequest struct {
	Amount     decimal.Decimal        `json:"amount" binding:"required"`
	Type       domain.TransactionType `json:"type" binding:"required,transactiontype"`
	Category   string                 `json:"category" binding:"required,max=100"`
	OccurredAt time.Time              `json:"occurredAt" binding:"required"`
}

// ListTransactionsParams holds optional filters for listing transactions.
type ListTransactionsParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	OccurredAt    time.Time       `json:"occurredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	ModifiedAt    time.Time       `json:"modifiedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Amount:        txn.Amount,
		Type:          string(txn.Type),
		Category:      txn.Category,
		OccurredAt:    txn.OccurredAt,
		CreatedAt:     txn.CreatedAt,
		ModifiedAt:    txn.ModifiedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
