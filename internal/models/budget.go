package models

import "time"

// Budget mirrors one row of the budgets table. Body holds the per-category
// forecast/actual document as raw JSONB; (de)serialization to the typed
// structure lives in the mapping package.
type Budget struct {
	BudgetID   string    `db:"budget_id"`
	UserID     string    `db:"user_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Body       []byte    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
}
