package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// JobEnqueuer hands work to the background job runner. Jobs are
// fire-and-forget; their terminal status lives in persisted records, not in
// process memory.
type JobEnqueuer interface {
	// EnqueueBudgetRecheck schedules a full recompute of the budget's actuals.
	EnqueueBudgetRecheck(ctx context.Context, budgetID string) error

	// EnqueueReport schedules a transaction report task.
	EnqueueReport(ctx context.Context, job dto.ReportJob) error
}
