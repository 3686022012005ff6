package mapping

import (
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Amount:        d.Amount,
		Type:          models.TransactionType(d.Type),
		Category:      d.Category,
		OccurredAt:    d.OccurredAt,
		CreatedAt:     d.CreatedAt,
		ModifiedAt:    d.ModifiedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		Category:      m.Category,
		OccurredAt:    m.OccurredAt,
		CreatedAt:     m.CreatedAt,
		ModifiedAt:    m.ModifiedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain ones.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
