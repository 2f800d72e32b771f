package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type historyRepository struct {
	db DB
}

func NewHistoryRepository(db DB) interfaces.HistoryRepository {
	return &historyRepository{db: db}
}

// Append archives a terminal order snapshot. An order that was already
// archived (e.g. cancelled after a crash-recovery replay) is updated in
// place, matching the last-write-wins history semantics.
func (r *historyRepository) Append(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO order_history (id, number, type, customer_name, customer_phone,
		                           total_amount, status, store_request, extras_request,
		                           preparation_minutes, elapsed_seconds, created_at,
		                           accepted_at, ready_at, completed_at, cancelled_at, rejected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			elapsed_seconds = EXCLUDED.elapsed_seconds,
			completed_at = EXCLUDED.completed_at,
			cancelled_at = EXCLUDED.cancelled_at,
			rejected_at = EXCLUDED.rejected_at
	`
	err = tx.Exec(ctx, query,
		order.ID, order.Number, order.Type, order.CustomerName, order.CustomerPhone,
		order.TotalAmount, order.Status, order.Requests.Store, order.Requests.Extras,
		order.PreparationMinutes, order.ElapsedSeconds, order.CreatedAt,
		order.AcceptedAt, order.ReadyAt, order.CompletedAt, order.CancelledAt, order.RejectedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order snapshot: %w", err)
	}

	if err := tx.Exec(ctx, `DELETE FROM order_history_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}
	for _, item := range order.Items {
		err := tx.Exec(ctx,
			`INSERT INTO order_history_items (order_id, name, unit_price, quantity) VALUES ($1, $2, $3, $4)`,
			order.ID, item.Name, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *historyRepository) LogStatus(ctx context.Context, entry domain.StatusLog) error {
	query := `
		INSERT INTO order_status_log (order_id, previous_status, status, changed_by, reason, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	err := r.db.Exec(ctx, query,
		entry.OrderID, entry.Previous, entry.Status, entry.ChangedBy, entry.Reason, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to log status change: %w", err)
	}
	return nil
}

func (r *historyRepository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	query := `
		SELECT id, number, type, customer_name, customer_phone, total_amount, status,
		       store_request, extras_request, preparation_minutes, elapsed_seconds,
		       created_at, accepted_at, ready_at, completed_at, cancelled_at, rejected_at
		FROM order_history
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.Number, &order.Type, &order.CustomerName, &order.CustomerPhone,
			&order.TotalAmount, &order.Status, &order.Requests.Store, &order.Requests.Extras,
			&order.PreparationMinutes, &order.ElapsedSeconds,
			&order.CreatedAt, &order.AcceptedAt, &order.ReadyAt,
			&order.CompletedAt, &order.CancelledAt, &order.RejectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, &order)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *historyRepository) StatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error) {
	query := `
		SELECT id, order_id, previous_status, status, changed_by, reason, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var logs []*domain.StatusLog
	for rows.Next() {
		var entry domain.StatusLog
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.Previous, &entry.Status,
			&entry.ChangedBy, &entry.Reason, &entry.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status log: %w", err)
		}
		logs = append(logs, &entry)
	}

	return logs, nil
}

func (r *historyRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, unit_price, quantity FROM order_history_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}
