package models

import "time"

// ReportResult mirrors one row of the report_results table.
type ReportResult struct {
	ReportID     string    `db:"report_id"`
	UserID       string    `db:"user_id"`
	TaskID       string    `db:"task_id"`
	ReportPath   *string   `db:"report_path"`
	SendEmail    bool      `db:"send_email"`
	Status       string    `db:"status"`
	ErrorMessage *string   `db:"error_message"`
	CreatedAt    time.Time `db:"created_at"`
}
