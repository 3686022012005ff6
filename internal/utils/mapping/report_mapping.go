package mapping

import (
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	"github.com/fintrk/fin_tracker_app/internal/models"
)

// ToModelReportResult converts a domain ReportResult to a model ReportResult.
func ToModelReportResult(d domain.ReportResult) models.ReportResult {
	return models.ReportResult{
		ReportID:     d.ReportID,
		UserID:       d.UserID,
		TaskID:       d.TaskID,
		ReportPath:   d.ReportPath,
		SendEmail:    d.SendEmail,
		Status:       string(d.Status),
		ErrorMessage: d.ErrorMessage,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainReportResult converts a model ReportResult to a domain ReportResult.
func ToDomainReportResult(m models.ReportResult) domain.ReportResult {
	return domain.ReportResult{
		ReportID:     m.ReportID,
		UserID:       m.UserID,
		TaskID:       m.TaskID,
		ReportPath:   m.ReportPath,
		SendEmail:    m.SendEmail,
		Status:       domain.ReportStatus(m.Status),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
	}
}
