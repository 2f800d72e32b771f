// Package lifecycle owns every order state transition: the operator
// commands, the auto-accept policy, the elapsed-time counters and the
// periodic alert sweeps. All mutation of the order record store funnels
// through the Engine; everything downstream only reads.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/app/hours"
	"github.com/yumyum-pos/orderdesk/internal/app/validation"
	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type Engine struct {
	store    interfaces.OrderStore
	history  interfaces.HistoryRepository
	printer  interfaces.PrintSink
	notifier interfaces.NotifySink
	settings interfaces.SettingsProvider
	clock    interfaces.Clock
	gate     hours.Gate
	logger   logger.Logger

	// Transitions are serialized: each one runs to completion, state
	// mutation and side-effect requests included, before the next event
	// is handled.
	mu sync.Mutex
}

func NewEngine(
	store interfaces.OrderStore,
	history interfaces.HistoryRepository,
	printer interfaces.PrintSink,
	notifier interfaces.NotifySink,
	settings interfaces.SettingsProvider,
	clock interfaces.Clock,
	gate hours.Gate,
	logger logger.Logger,
) *Engine {
	return &Engine{
		store:    store,
		history:  history,
		printer:  printer,
		notifier: notifier,
		settings: settings,
		clock:    clock,
		gate:     gate,
		logger:   logger,
	}
}

// Intake registers a new pending order and applies the auto-accept policy.
// When auto-accept is enabled but business hours are closed the order
// stays pending and surfaces to the operator as usual.
func (e *Engine) Intake(ctx context.Context, cmd interfaces.IntakeCommand) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}

	order, err := domain.NewOrder(cmd.CustomerName, cmd.CustomerPhone, domain.OrderType(cmd.OrderType), items, cmd.TotalAmount, now)
	if err != nil {
		return nil, err
	}
	order.Requests = domain.Requests{Store: cmd.StoreRequest, Extras: cmd.ExtrasRequest}
	order.ReservationDate = cmd.ReservationDate
	order.ReservationTime = cmd.ReservationTime
	order.Number = e.store.NextNumber(now)

	e.store.Add(order)

	e.logger.Info("order_received", fmt.Sprintf("Order %d received", order.Number), order.ID, map[string]interface{}{
		"order_number": order.Number,
		"total_amount": order.TotalAmount,
	})

	e.alert(ctx, interfaces.AlertMessage{
		Message:   fmt.Sprintf("New order received (%d)", order.Number),
		Severity:  interfaces.SeverityWarning,
		OrderID:   order.ID,
		Timestamp: now,
	})

	settings := e.settings.Get()
	if settings.AutoAcceptEnabled {
		if err := e.accept(ctx, order, settings.AutoAcceptMinutes, "auto-accept"); err != nil {
			// Not fatal: the order stays pending for manual handling.
			e.logger.Info("auto_accept_skipped", "Auto-accept did not apply", order.ID, map[string]interface{}{
				"reason": err.Error(),
			})
		}
	}

	return order.Clone(), nil
}

// Accept moves a pending order to preparing with the operator-chosen
// preparation time.
func (e *Engine) Accept(ctx context.Context, orderID string, prepMinutes int) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	if err := e.accept(ctx, order, prepMinutes, "operator"); err != nil {
		return nil, err
	}
	return order.Clone(), nil
}

// accept applies the Pending -> Preparing transition. Caller holds the lock.
func (e *Engine) accept(ctx context.Context, order *domain.Order, prepMinutes int, changedBy string) error {
	if order.Status != domain.StatusPending {
		return guardf("only pending orders can be accepted")
	}
	now := e.clock.Now()
	if !e.gate.IsOpen(now) {
		return guardf("outside business hours")
	}
	if !domain.ValidPreparationMinutes(prepMinutes) {
		return guardf("preparation time must be between %d and %d minutes in steps of %d",
			domain.MinPreparationMinutes, domain.MaxPreparationMinutes, domain.PreparationMinutesStep)
	}

	// The overdue flag is advisory and never blocks acceptance.
	result := validation.Validate(order, e.rules())
	if !result.IsValid() {
		return &ValidationError{Errors: result.Errors}
	}

	prev := order.Status
	if err := order.TransitionTo(domain.StatusPreparing, now); err != nil {
		return guardf("%s", err.Error())
	}
	order.PreparationMinutes = prepMinutes

	e.logStatus(ctx, order, prev, "order accepted", changedBy)
	e.statusChanged(ctx, order, prev, "order accepted")

	// Automatic receipt print, guarded against duplicates.
	e.requestPrint(ctx, order)

	e.alert(ctx, interfaces.AlertMessage{
		Message:   fmt.Sprintf("Order %d accepted, estimated preparation %d min", order.Number, prepMinutes),
		Severity:  interfaces.SeveritySuccess,
		OrderID:   order.ID,
		Timestamp: now,
	})

	return nil
}

// Reject refuses a pending order and archives it.
func (e *Engine) Reject(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusPending {
		return nil, guardf("only pending orders can be rejected")
	}
	now := e.clock.Now()
	if !e.gate.IsOpen(now) {
		return nil, guardf("outside business hours")
	}

	prev := order.Status
	if err := order.TransitionTo(domain.StatusRejected, now); err != nil {
		return nil, guardf("%s", err.Error())
	}

	e.logStatus(ctx, order, prev, "order rejected", "operator")
	e.statusChanged(ctx, order, prev, "order rejected")
	e.archive(ctx, order)
	e.store.Remove(order.ID)

	return order.Clone(), nil
}

// Cancel withdraws an order while it is still inside the cancel window.
// Validation failures never block a cancellation.
func (e *Engine) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusPending && order.Status != domain.StatusPreparing {
		return nil, guardf("orders already ready or completed cannot be cancelled")
	}

	now := e.clock.Now()
	timeout := time.Duration(e.settings.Get().CancelTimeoutMinutes) * time.Minute
	if now.Sub(order.CreatedAt) > timeout {
		return nil, guardf("orders can only be cancelled within %d minutes of creation", e.settings.Get().CancelTimeoutMinutes)
	}

	prev := order.Status
	if err := order.TransitionTo(domain.StatusCancelled, now); err != nil {
		return nil, guardf("%s", err.Error())
	}

	e.logStatus(ctx, order, prev, "cancelled by operator", "operator")
	e.statusChanged(ctx, order, prev, "cancelled by operator")
	e.archive(ctx, order)
	e.store.Remove(order.ID)

	e.alert(ctx, interfaces.AlertMessage{
		Message:   fmt.Sprintf("Order %d cancelled", order.Number),
		Severity:  interfaces.SeverityWarning,
		OrderID:   order.ID,
		Timestamp: now,
	})

	return order.Clone(), nil
}

// MarkReady is the first half of the two-step ready confirmation. It only
// verifies the guard; no state changes until ConfirmReady.
func (e *Engine) MarkReady(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusPreparing {
		return nil, guardf("only preparing orders can be marked ready")
	}
	return order.Clone(), nil
}

// ConfirmReady applies Preparing -> Ready after the operator confirmed.
// The elapsed counter freezes from here on.
func (e *Engine) ConfirmReady(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusPreparing {
		return nil, guardf("only preparing orders can be marked ready")
	}

	now := e.clock.Now()
	prev := order.Status
	if err := order.TransitionTo(domain.StatusReady, now); err != nil {
		return nil, guardf("%s", err.Error())
	}

	e.logStatus(ctx, order, prev, "preparation finished", "operator")
	e.statusChanged(ctx, order, prev, "preparation finished")

	e.alert(ctx, interfaces.AlertMessage{
		Message:   fmt.Sprintf("Order %d is ready for pickup", order.Number),
		Severity:  interfaces.SeveritySuccess,
		OrderID:   order.ID,
		Timestamp: now,
	})

	return order.Clone(), nil
}

// Complete hands a ready order over to the customer. Completed orders are
// archived but stay in the working set until the next session reload.
func (e *Engine) Complete(ctx context.Context, orderID string) (*domain.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, ok := e.store.Get(orderID)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusReady {
		return nil, guardf("only ready orders can be completed")
	}

	now := e.clock.Now()
	prev := order.Status
	if err := order.TransitionTo(domain.StatusCompleted, now); err != nil {
		return nil, guardf("%s", err.Error())
	}

	e.logStatus(ctx, order, prev, "order completed", "operator")
	e.statusChanged(ctx, order, prev, "order completed")
	e.archive(ctx, order)

	return order.Clone(), nil
}

// Tick advances the elapsed counter of every counting order by one
// second. The host drives it on a fixed one second period.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, order := range e.store.List() {
		if order.Counting() {
			order.ElapsedSeconds++
		}
	}
}

// RevalidateAll refreshes the transient validation errors on every open
// order for display. It never forces a transition.
func (e *Engine) RevalidateAll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	rules := e.rules()
	for _, order := range e.store.List() {
		if order.Status.IsTerminal() {
			continue
		}
		result := validation.Validate(order, rules)
		errs := result.Errors
		if result.Overdue {
			errs = append(errs, fmt.Sprintf("exceeds max preparation time (%d min)", rules.MaxPreparationMinutes))
		}
		order.ValidationErrors = errs
	}
}

// CheckAlerts runs the advisory sweep: hourly order volume against the
// configured ceiling, and preparing orders past the overdue or delay
// thresholds. One notification per flagged order; nothing transitions.
func (e *Engine) CheckAlerts(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	settings := e.settings.Get()

	hourAgo := now.Add(-time.Hour)
	recent := 0
	for _, order := range e.store.List() {
		if order.CreatedAt.After(hourAgo) {
			recent++
		}
	}
	if recent >= settings.MaxOrdersPerHour {
		e.alert(ctx, interfaces.AlertMessage{
			Message:   fmt.Sprintf("Hourly order volume near limit (%d/%d)", recent, settings.MaxOrdersPerHour),
			Severity:  interfaces.SeverityWarning,
			Timestamp: now,
		})
	}

	for _, order := range e.store.List() {
		if order.Status != domain.StatusPreparing {
			continue
		}
		minutes := order.ElapsedMinutes()
		switch {
		case minutes > settings.MaxPreparationMinutes:
			e.alert(ctx, interfaces.AlertMessage{
				Message:   fmt.Sprintf("Order %d exceeded max preparation time (%d min)", order.Number, minutes),
				Severity:  interfaces.SeverityError,
				OrderID:   order.ID,
				Timestamp: now,
			})
		case minutes > settings.DelayThresholdMinutes:
			e.alert(ctx, interfaces.AlertMessage{
				Message:   fmt.Sprintf("Order %d has been preparing for %d minutes", order.Number, minutes),
				Severity:  interfaces.SeverityWarning,
				OrderID:   order.ID,
				Timestamp: now,
			})
		}
	}
}

// Active returns a snapshot of the current working set. Copies are taken
// under the lock so callers never observe a half-applied mutation.
func (e *Engine) Active() []*domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	orders := e.store.List()
	out := make([]*domain.Order, len(orders))
	for i, order := range orders {
		out[i] = order.Clone()
	}
	return out
}

// Stats snapshots the working set by status.
func (e *Engine) Stats() interfaces.OrderStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var stats interfaces.OrderStats
	for _, order := range e.store.List() {
		stats.Total++
		switch order.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusPreparing:
			stats.Preparing++
		case domain.StatusReady:
			stats.Ready++
		case domain.StatusCompleted:
			stats.Completed++
		}
		if len(order.ValidationErrors) > 0 {
			stats.Flagged++
		}
	}
	return stats
}

func (e *Engine) rules() validation.Rules {
	s := e.settings.Get()
	return validation.Rules{
		MinOrderAmount:        s.MinOrderAmount,
		MaxItemsPerOrder:      s.MaxItemsPerOrder,
		MaxPreparationMinutes: s.MaxPreparationMinutes,
	}
}

// requestPrint asks the print sink for an automatic receipt. The request
// is idempotent: once a print succeeded the flag suppresses any repeat.
// Print failures are logged and never affect the applied transition.
func (e *Engine) requestPrint(ctx context.Context, order *domain.Order) {
	if e.printer == nil || order.ReceiptPrinted {
		return
	}
	result, err := e.printer.RequestReceipt(ctx, order)
	if err != nil {
		e.logger.Error("receipt_print_failed", "Failed to print receipt", order.ID, nil, err)
		return
	}
	if !result.Success {
		e.logger.Warn("receipt_print_skipped", "Receipt was not printed", order.ID, map[string]interface{}{
			"reason": result.Reason,
		})
		return
	}
	order.ReceiptPrinted = true
}

// archive hands a terminal order snapshot to the history sink. Failures
// are logged; the transition already applied and is never rolled back.
func (e *Engine) archive(ctx context.Context, order *domain.Order) {
	if e.history == nil {
		return
	}
	if err := e.history.Append(ctx, order); err != nil {
		e.logger.Error("history_append_failed", "Failed to archive order", order.ID, nil, err)
	}
}

func (e *Engine) logStatus(ctx context.Context, order *domain.Order, prev domain.Status, reason, changedBy string) {
	if e.history == nil {
		return
	}
	entry := domain.StatusLog{
		OrderID:   order.ID,
		Previous:  prev,
		Status:    order.Status,
		ChangedBy: changedBy,
		Reason:    reason,
		ChangedAt: e.clock.Now(),
	}
	if err := e.history.LogStatus(ctx, entry); err != nil {
		e.logger.Error("status_log_failed", "Failed to log status change", order.ID, nil, err)
	}
}

func (e *Engine) statusChanged(ctx context.Context, order *domain.Order, prev domain.Status, reason string) {
	if e.notifier == nil {
		return
	}
	msg := interfaces.StatusChangeMessage{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		OldStatus:   prev,
		NewStatus:   order.Status,
		Reason:      reason,
		Timestamp:   e.clock.Now(),
	}
	if err := e.notifier.StatusChanged(ctx, msg); err != nil {
		e.logger.Error("notify_publish_failed", "Failed to publish status change", order.ID, nil, err)
	}
}

func (e *Engine) alert(ctx context.Context, msg interfaces.AlertMessage) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Alert(ctx, msg); err != nil {
		e.logger.Error("notify_publish_failed", "Failed to publish alert", msg.OrderID, nil, err)
	}
}
