package dto

import (
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
)

// CreateReportRequest defines the payload for requesting a transaction report.
// Dates are calendar days; when both are set the report covers that inclusive
// range, otherwise the whole ledger.
type CreateReportRequest struct {
	StartDate *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	SendEmail bool    `json:"sendEmail"`
}

// ReportJob is the unit of work handed to the background job runner.
type ReportJob struct {
	TaskID    string  `json:"taskID"`
	UserID    string  `json:"userID"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	SendEmail bool    `json:"sendEmail"`
}

// ReportResponse defines the data returned when polling a report task.
type ReportResponse struct {
	TaskID       string    `json:"taskID"`
	Status       string    `json:"status"`
	ReportPath   *string   `json:"reportPath,omitempty"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToReportResponse converts a domain.ReportResult to ReportResponse.
func ToReportResponse(r *domain.ReportResult) ReportResponse {
	return ReportResponse{
		TaskID:       r.TaskID,
		Status:       string(r.Status),
		ReportPath:   r.ReportPath,
		ErrorMessage: r.ErrorMessage,
		CreatedAt:    r.CreatedAt,
	}
}
