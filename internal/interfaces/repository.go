package interfaces

import (
	"context"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
)

// OrderStore is the record store for the active working set. It owns the
// in-memory lifetime of orders; only the lifecycle engine mutates the
// records it returns.
type OrderStore interface {
	Add(order *domain.Order)
	Get(id string) (*domain.Order, bool)
	Remove(id string)
	List() []*domain.Order
	// NextNumber hands out the per-day display sequence number.
	NextNumber(day time.Time) int
}

// HistoryRepository persists terminal order snapshots and the status
// change log (Adapter/Postgres).
type HistoryRepository interface {
	Append(ctx context.Context, order *domain.Order) error
	LogStatus(ctx context.Context, entry domain.StatusLog) error
	ListRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error)
	StatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error)
}
