package repositories

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
)

// ReportResultReader defines read operations for background report records.
type ReportResultReader interface {
	// FindReportResultByTaskID retrieves the record for a job handle.
	FindReportResultByTaskID(ctx context.Context, taskID string) (*domain.ReportResult, error)
}

// ReportResultWriter defines write operations for background report records.
// Only the job executing a task writes its record.
type ReportResultWriter interface {
	// SaveReportResult persists a new record in the in_progress state.
	SaveReportResult(ctx context.Context, result domain.ReportResult) error

	// UpdateReportResult stores the terminal status, report path and error message.
	UpdateReportResult(ctx context.Context, result domain.ReportResult) error
}

// ReportResultRepositoryFacade combines all report-record repository interfaces.
type ReportResultRepositoryFacade interface {
	ReportResultReader
	ReportResultWriter
}
