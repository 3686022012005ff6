package domain

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

// IsValid reports whether the transaction type is one of the known values.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// DisplayName returns a human-readable name for the transaction type.
func (t TransactionType) DisplayName() string {
	switch t {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return string(t)
	}
}

// Transaction represents a single dated, categorized monetary entry in a user's ledger.
type Transaction struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	UserID        string          `json:"userID"`        // FK -> User.userID (Not Null)
	Amount        decimal.Decimal `json:"amount"`        // Always positive; precise decimal type
	Type          TransactionType `json:"type"`          // income or expense
	Category      string          `json:"category"`      // Free-text category name
	OccurredAt    time.Time       `json:"occurredAt"`    // When the money moved
	CreatedAt     time.Time       `json:"createdAt"`
	ModifiedAt    time.Time       `json:"modifiedAt"` // Updated on every write
}
