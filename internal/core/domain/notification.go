package domain

// NotificationKind distinguishes the kinds of outgoing mail.
type NotificationKind string

const (
	// NotifyZeroBudget is the standing warning for a category without a forecast.
	NotifyZeroBudget NotificationKind = "zero_budget"
	// NotifyLimitBudget is the one-time warning for crossing 90% of forecast.
	NotifyLimitBudget NotificationKind = "limit_budget"
	// NotifyReport carries a generated transaction report as an attachment.
	NotifyReport NotificationKind = "report"
)

// Notification is a rendered message ready for delivery.
type Notification struct {
	Kind           NotificationKind
	Subject        string
	Body           string
	Recipient      string
	Attachment     []byte // Optional file content (CSV reports)
	AttachmentName string
}
