package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction records income or an expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Transaction mirrors one row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	Type          TransactionType `db:"transaction_type"`
	Category      string          `db:"category"`
	OccurredAt    time.Time       `db:"occurred_at"`
	CreatedAt     time.Time       `db:"created_at"`
	ModifiedAt    time.Time       `db:"modified_at"`
}
