package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryEntry holds the forecast/actual/notification state for one
// (transaction type, category) pair within one budget period.
type CategoryEntry struct {
	Forecast     decimal.Decimal `json:"forecast"`
	Actual       decimal.Decimal `json:"actual"`
	IsNotified   bool            `json:"is_notified"`
	DateNotified *time.Time      `json:"date_notified"`
}

// BudgetBody maps transaction type -> category name -> entry.
type BudgetBody map[TransactionType]map[string]*CategoryEntry

// EntryFor returns the entry for the given type and category, or nil.
func (b BudgetBody) EntryFor(txnType TransactionType, category string) *CategoryEntry {
	categories, ok := b[txnType]
	if !ok {
		return nil
	}
	return categories[category]
}

// EnsureEntry returns the entry for the given type and category, creating a
// zero-valued entry (forecast 0, actual 0, not notified) if absent.
func (b BudgetBody) EnsureEntry(txnType TransactionType, category string) *CategoryEntry {
	categories, ok := b[txnType]
	if !ok {
		categories = make(map[string]*CategoryEntry)
		b[txnType] = categories
	}
	entry, ok := categories[category]
	if !ok {
		entry = &CategoryEntry{
			Forecast: decimal.Zero,
			Actual:   decimal.Zero,
		}
		categories[category] = entry
	}
	return entry
}

// Budget represents one user's forecast/actual ledger for a contiguous period.
// The period upper bound is exclusive: a transaction belongs to the budget
// when StartDate <= occurredAt < EndDate.
type Budget struct {
	BudgetID   string     `json:"budgetID"` // Primary Key (UUID)
	UserID     string     `json:"userID"`   // FK -> User.userID (Not Null)
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	Body       BudgetBody `json:"body"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedAt time.Time  `json:"modifiedAt"`
}

// ContainsDate reports whether the given instant falls inside the budget period.
func (b *Budget) ContainsDate(t time.Time) bool {
	return !t.Before(b.StartDate) && t.Before(b.EndDate)
}
