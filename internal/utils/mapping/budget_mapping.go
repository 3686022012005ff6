package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget, serializing the
// body to JSON for the JSONB column.
func ToModelBudget(d domain.Budget) (models.Budget, error) {
	body, err := json.Marshal(d.Body)
	if err != nil {
		return models.Budget{}, fmt.Errorf("failed to marshal budget body: %w", err)
	}
	return models.Budget{
		BudgetID:   d.BudgetID,
		UserID:     d.UserID,
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		Body:       body,
		CreatedAt:  d.CreatedAt,
		ModifiedAt: d.ModifiedAt,
	}, nil
}

// ToDomainBudget converts a model Budget to a domain Budget, parsing the
// stored JSON body into the typed structure.
func ToDomainBudget(m models.Budget) (domain.Budget, error) {
	body := make(domain.BudgetBody)
	if len(m.Body) > 0 {
		if err := json.Unmarshal(m.Body, &body); err != nil {
			return domain.Budget{}, fmt.Errorf("failed to unmarshal budget body for budget %s: %w", m.BudgetID, err)
		}
	}
	return domain.Budget{
		BudgetID:   m.BudgetID,
		UserID:     m.UserID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Body:       body,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}, nil
}

// MarshalBudgetBody serializes a budget body for persistence.
func MarshalBudgetBody(body domain.BudgetBody) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal budget body: %w", err)
	}
	return raw, nil
}
