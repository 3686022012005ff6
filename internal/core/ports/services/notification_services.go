package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
)

// NotificationSvcFacade is the notification decider: it evaluates category
// entries against the threshold rules and dispatches the resulting messages.
type NotificationSvcFacade interface {
	// EvaluateEntry applies the decider rules to one category entry. It may
	// set the entry's is_notified flag (a one-way transition) and returns the
	// notifications to deliver. It performs no I/O so it can run inside a
	// database transaction.
	EvaluateEntry(recipient string, txnType domain.TransactionType, category string, entry *domain.CategoryEntry) []domain.Notification

	// Dispatch delivers notifications, logging and swallowing transport
	// errors. It never fails the surrounding operation.
	Dispatch(ctx context.Context, notifications []domain.Notification)
}
