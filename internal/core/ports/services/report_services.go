package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/dto"
)

// ReportSvcFacade produces transaction CSV reports through the background job
// path and exposes their status for polling.
type ReportSvcFacade interface {
	// RequestReport enqueues a report job and returns its task ID immediately.
	RequestReport(ctx context.Context, userID string, req dto.CreateReportRequest) (string, error)

	// GetReportByTaskID retrieves the record for a previously enqueued report.
	GetReportByTaskID(ctx context.Context, userID string, taskID string) (*domain.ReportResult, error)

	// RunReport executes one report task. Called by the worker; the outcome
	// (completed/error) is recorded in the report result record, never
	// propagated as a job failure.
	RunReport(ctx context.Context, task dto.ReportJob)
}
