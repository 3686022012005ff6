package domain

import "time"

// ReportStatus is the terminal-state machine of a background report task.
type ReportStatus string

const (
	ReportInProgress ReportStatus = "in_progress"
	ReportCompleted  ReportStatus = "completed"
	ReportError      ReportStatus = "error"
)

// ReportResult records the outcome of one background report task. It is
// written only by the job executing the task and read by a polling endpoint.
type ReportResult struct {
	ReportID     string       `json:"reportID"` // Primary Key (UUID)
	UserID       string       `json:"userID"`   // FK -> User.userID (Not Null)
	TaskID       string       `json:"taskID"`   // Job handle used for polling
	ReportPath   *string      `json:"reportPath"`
	SendEmail    bool         `json:"sendEmail"` // Email the CSV instead of storing it
	Status       ReportStatus `json:"status"`
	ErrorMessage *string      `json:"errorMessage"`
	CreatedAt    time.Time    `json:"createdAt"`
}
