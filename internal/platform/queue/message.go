package queue

import (
	"encoding/json"
	"fmt"

	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// Job kinds routed through the single work queue.
const (
	KindBudgetRecheck = "budget_recheck"
	KindReport        = "transaction_report"
)

// Envelope wraps every queued message with its kind so one consumer can
// route all job types.
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// BudgetRecheckPayload identifies the budget to recompute.
type BudgetRecheckPayload struct {
	BudgetID string `json:"budgetID"`
}

// NewBudgetRecheckMessage builds the wire form of a recheck job.
func NewBudgetRecheckMessage(budgetID string) ([]byte, error) {
	return marshalEnvelope(KindBudgetRecheck, BudgetRecheckPayload{BudgetID: budgetID})
}

// NewReportMessage builds the wire form of a report job.
func NewReportMessage(job dto.ReportJob) ([]byte, error) {
	return marshalEnvelope(KindReport, job)
}

func marshalEnvelope(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	body, err := json.Marshal(Envelope{Kind: kind, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", kind, err)
	}
	return body, nil
}

// EnvelopeFromJSON decodes a queued message.
func EnvelopeFromJSON(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}
