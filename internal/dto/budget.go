package dto

import (
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryEntryPayload is the wire form of one category entry. Forecast and
// actual are pointers so that missing values can be told apart from zero and
// rejected with a field-keyed validation error.
type CategoryEntryPayload struct {
	Forecast     *decimal.Decimal `json:"forecast"`
	Actual       *decimal.Decimal `json:"actual"`
	IsNotified   bool             `json:"is_notified"`
	DateNotified *time.Time       `json:"date_notified"`
}

// BudgetBodyPayload maps transaction type ("income"/"expense") to category
// name to entry.
type BudgetBodyPayload map[string]map[string]CategoryEntryPayload

// CreateBudgetRequest defines the payload for creating a budget period.
type CreateBudgetRequest struct {
	StartDate time.Time         `json:"startDate" binding:"required"`
	EndDate   time.Time         `json:"endDate" binding:"required"`
	Budget    BudgetBodyPayload `json:"budget" binding:"required"`
}

// UpdateBudgetRequest replaces the budget document wholesale.
type UpdateBudgetRequest struct {
	StartDate time.Time         `json:"startDate" binding:"required"`
	EndDate   time.Time         `json:"endDate" binding:"required"`
	Budget    BudgetBodyPayload `json:"budget" binding:"required"`
}

// BudgetSummaryResponse is the list form of a budget (no body).
type BudgetSummaryResponse struct {
	BudgetID  string    `json:"budgetID"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CategoryEntryResponse mirrors one category entry of a stored budget.
type CategoryEntryResponse struct {
	Forecast     decimal.Decimal `json:"forecast"`
	Actual       decimal.Decimal `json:"actual"`
	IsNotified   bool            `json:"is_notified"`
	DateNotified *time.Time      `json:"date_notified"`
}

// BudgetResponse defines the full data returned for a budget.
type BudgetResponse struct {
	BudgetID   string                                      `json:"budgetID"`
	StartDate  time.Time                                   `json:"startDate"`
	EndDate    time.Time                                   `json:"endDate"`
	Budget     map[string]map[string]CategoryEntryResponse `json:"budget"`
	CreatedAt  time.Time                                   `json:"createdAt"`
	ModifiedAt time.Time                                   `json:"modifiedAt"`
}

// ToBudgetSummaryResponse converts a domain.Budget to its list form.
func ToBudgetSummaryResponse(b *domain.Budget) BudgetSummaryResponse {
	return BudgetSummaryResponse{
		BudgetID:  b.BudgetID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
}

// ToBudgetSummaryResponses converts a slice of domain.Budget to list DTOs.
func ToBudgetSummaryResponses(budgets []domain.Budget) []BudgetSummaryResponse {
	responses := make([]BudgetSummaryResponse, len(budgets))
	for i := range budgets {
		responses[i] = ToBudgetSummaryResponse(&budgets[i])
	}
	return responses
}

// ToBudgetResponse converts a domain.Budget to its full response form.
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	body := make(map[string]map[string]CategoryEntryResponse, len(b.Body))
	for txnType, categories := range b.Body {
		entries := make(map[string]CategoryEntryResponse, len(categories))
		for name, entry := range categories {
			entries[name] = CategoryEntryResponse{
				Forecast:     entry.Forecast,
				Actual:       entry.Actual,
				IsNotified:   entry.IsNotified,
				DateNotified: entry.DateNotified,
			}
		}
		body[string(txnType)] = entries
	}
	return BudgetResponse{
		BudgetID:   b.BudgetID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Budget:     body,
		CreatedAt:  b.CreatedAt,
		ModifiedAt: b.ModifiedAt,
	}
}
