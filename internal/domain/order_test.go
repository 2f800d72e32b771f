package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []OrderItem{
		{Name: "Fried Chicken", UnitPrice: 9000, Quantity: 1},
		{Name: "Cola", UnitPrice: 2000, Quantity: 2},
	}

	t.Run("derives total from items", func(t *testing.T) {
		order, err := NewOrder("Kim", "010-1234-5678", OrderTypePackaging, items, 0, now)
		if err != nil {
			t.Fatalf("NewOrder() error = %v", err)
		}
		if order.TotalAmount != 13000 {
			t.Errorf("TotalAmount = %d, want 13000", order.TotalAmount)
		}
		if order.Status != StatusPending {
			t.Errorf("Status = %s, want %s", order.Status, StatusPending)
		}
		if order.ID == "" {
			t.Error("ID is empty")
		}
	})

	t.Run("keeps explicit total", func(t *testing.T) {
		order, err := NewOrder("Kim", "010-1234-5678", OrderTypeDineIn, items, 15000, now)
		if err != nil {
			t.Fatalf("NewOrder() error = %v", err)
		}
		if order.TotalAmount != 15000 {
			t.Errorf("TotalAmount = %d, want 15000", order.TotalAmount)
		}
	})

	t.Run("rejects unknown order type", func(t *testing.T) {
		_, err := NewOrder("Kim", "010-1234-5678", OrderType("delivery"), items, 0, now)
		if !errors.Is(err, ErrInvalidOrderType) {
			t.Errorf("error = %v, want ErrInvalidOrderType", err)
		}
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		bad := []OrderItem{{Name: "Cola", UnitPrice: 2000, Quantity: 0}}
		_, err := NewOrder("Kim", "010-1234-5678", OrderTypePackaging, bad, 0, now)
		if !errors.Is(err, ErrInvalidItemQuantity) {
			t.Errorf("error = %v, want ErrInvalidItemQuantity", err)
		}
	})
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to preparing", StatusPending, StatusPreparing, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to ready", StatusPending, StatusReady, false},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"preparing to cancelled", StatusPreparing, StatusCancelled, true},
		{"preparing to rejected", StatusPreparing, StatusRejected, false},
		{"preparing to completed", StatusPreparing, StatusCompleted, false},
		{"ready to completed", StatusReady, StatusCompleted, true},
		{"ready to cancelled", StatusReady, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusPreparing, false},
		{"rejected is terminal", StatusRejected, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			if got := order.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s) from %s = %v, want %v", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestTransitionTo(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stamps timestamp once", func(t *testing.T) {
		order := &Order{Status: StatusPending, CreatedAt: now}

		if err := order.TransitionTo(StatusPreparing, now); err != nil {
			t.Fatalf("TransitionTo(preparing) error = %v", err)
		}
		if order.AcceptedAt == nil || !order.AcceptedAt.Equal(now) {
			t.Fatalf("AcceptedAt = %v, want %v", order.AcceptedAt, now)
		}

		later := now.Add(10 * time.Minute)
		if err := order.TransitionTo(StatusReady, later); err != nil {
			t.Fatalf("TransitionTo(ready) error = %v", err)
		}
		if order.ReadyAt == nil || !order.ReadyAt.Equal(later) {
			t.Fatalf("ReadyAt = %v, want %v", order.ReadyAt, later)
		}
		if !order.AcceptedAt.Equal(now) {
			t.Errorf("AcceptedAt changed to %v", order.AcceptedAt)
		}
	})

	t.Run("illegal transition leaves state untouched", func(t *testing.T) {
		order := &Order{Status: StatusCompleted, CreatedAt: now}
		err := order.TransitionTo(StatusPending, now)
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("error = %v, want ErrInvalidStatusTransition", err)
		}
		if order.Status != StatusCompleted {
			t.Errorf("Status = %s, want completed", order.Status)
		}
	})
}

func TestClone(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder("Kim", "010-1234-5678", OrderTypePackaging,
		[]OrderItem{{Name: "Cola", UnitPrice: 2000, Quantity: 1}}, 0, now)
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}
	order.ValidationErrors = []string{"missing customer name"}

	clone := order.Clone()
	clone.Status = StatusPreparing
	clone.Items[0].Quantity = 9
	clone.ValidationErrors[0] = "scribble"

	if order.Status != StatusPending {
		t.Errorf("Status = %s after clone mutation, want pending", order.Status)
	}
	if order.Items[0].Quantity != 1 {
		t.Errorf("Items[0].Quantity = %d after clone mutation, want 1", order.Items[0].Quantity)
	}
	if order.ValidationErrors[0] != "missing customer name" {
		t.Errorf("ValidationErrors = %v after clone mutation", order.ValidationErrors)
	}
}

func TestCounting(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusPreparing, true},
		{StatusReady, false},
		{StatusCompleted, false},
		{StatusCancelled, false},
		{StatusRejected, false},
	}

	for _, tt := range tests {
		order := &Order{Status: tt.status}
		if got := order.Counting(); got != tt.want {
			t.Errorf("Counting() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidPreparationMinutes(t *testing.T) {
	tests := []struct {
		minutes int
		want    bool
	}{
		{5, true},
		{10, true},
		{30, true},
		{60, true},
		{0, false},
		{4, false},
		{7, false},
		{65, false},
		{-5, false},
	}

	for _, tt := range tests {
		if got := ValidPreparationMinutes(tt.minutes); got != tt.want {
			t.Errorf("ValidPreparationMinutes(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}
