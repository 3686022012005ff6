package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// limitThreshold is the fraction of forecast at which the one-time limit
// warning fires.
var limitThreshold = decimal.NewFromFloat(0.9)

// notificationService decides, per category entry, whether a budget warning
// must go out, and delivers computed warnings best-effort.
type notificationService struct {
	notifier portssvc.Notifier
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifier portssvc.Notifier) portssvc.NotificationSvcFacade {
	return &notificationService{notifier: notifier}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// EvaluateEntry applies the two decider rules to a single category entry.
//
// Rule A: a zero forecast produces a "missing budget" warning on every pass,
// regardless of is_notified, and leaves the flag untouched.
//
// Rule B: once actual reaches 90% of a positive forecast, a single threshold
// warning is produced and is_notified flips to true. The flip is one-way:
// later fluctuations of actual never re-arm the warning.
func (s *notificationService) EvaluateEntry(recipient string, txnType domain.TransactionType, category string, entry *domain.CategoryEntry) []domain.Notification {
	var out []domain.Notification

	if entry.Forecast.IsZero() {
		out = append(out, domain.Notification{
			Kind:      domain.NotifyZeroBudget,
			Subject:   "Missing budget warning",
			Body:      fmt.Sprintf("A budget must be set for category '%s' (%s).", category, txnType),
			Recipient: recipient,
		})
	}

	if entry.Forecast.IsPositive() && !entry.IsNotified &&
		entry.Actual.GreaterThanOrEqual(entry.Forecast.Mul(limitThreshold)) {
		out = append(out, domain.Notification{
			Kind:    domain.NotifyLimitBudget,
			Subject: "Budget warning",
			Body: fmt.Sprintf("Your limit for category '%s' (%s) has reached 90%%. Forecast: %s, Actual: %s.",
				category, txnType, entry.Forecast.String(), entry.Actual.String()),
			Recipient: recipient,
		})
		entry.IsNotified = true
		today := truncateToDate(time.Now().UTC())
		entry.DateNotified = &today
	}

	return out
}

// Dispatch delivers the notifications one by one. Transport failures are
// logged and swallowed: the state changes already computed stand, and the
// operation that triggered the notifications never fails because of them.
func (s *notificationService) Dispatch(ctx context.Context, notifications []domain.Notification) {
	logger := middleware.GetLoggerFromCtx(ctx)
	for _, n := range notifications {
		if err := s.notifier.Deliver(ctx, n); err != nil {
			logger.Error("Failed to deliver notification",
				slog.String("kind", string(n.Kind)),
				slog.String("recipient", n.Recipient),
				slog.String("error", err.Error()),
			)
		}
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
