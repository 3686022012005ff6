package services

import (
	"context"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
)

// Notifier delivers a rendered notification to its recipient. Implementations
// return transport errors; callers on the reconciliation path log and swallow
// them so state changes already computed are never rolled back.
type Notifier interface {
	Deliver(ctx context.Context, n domain.Notification) error
}
