package reporting

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type stubHistory struct {
	orders []*domain.Order
}

func (h *stubHistory) Append(ctx context.Context, order *domain.Order) error { return nil }

func (h *stubHistory) LogStatus(ctx context.Context, entry domain.StatusLog) error { return nil }

func (h *stubHistory) ListRange(ctx context.Context, from, to time.Time) ([]*domain.Order, error) {
	return h.orders, nil
}

func (h *stubHistory) StatusHistory(ctx context.Context, orderID string) ([]*domain.StatusLog, error) {
	return nil, nil
}

func archived(status domain.Status, created time.Time, amount int, items ...domain.OrderItem) *domain.Order {
	return &domain.Order{
		Status:      status,
		CreatedAt:   created,
		TotalAmount: amount,
		Items:       items,
	}
}

func newService(orders ...*domain.Order) *Service {
	return NewService(&stubHistory{orders: orders}, logger.NewWriter("test", io.Discard))
}

func TestSummary(t *testing.T) {
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newService(
		archived(domain.StatusCompleted, monday, 20000),
		archived(domain.StatusCompleted, monday, 15000),
		archived(domain.StatusCancelled, monday, 9000),
		archived(domain.StatusRejected, monday, 5000),
	)

	summary, err := svc.Summary(context.Background(), monday, monday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	want := &interfaces.SalesSummary{Orders: 4, Completed: 2, Cancelled: 2, Revenue: 35000}
	if !reflect.DeepEqual(summary, want) {
		t.Errorf("Summary() = %+v, want %+v", summary, want)
	}
}

func TestDailySales(t *testing.T) {
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	svc := newService(
		archived(domain.StatusCompleted, tuesday, 12000),
		archived(domain.StatusCompleted, monday, 20000),
		archived(domain.StatusCompleted, monday, 15000),
		archived(domain.StatusCancelled, monday, 9000),
	)

	daily, err := svc.DailySales(context.Background(), monday, tuesday.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("DailySales() error = %v", err)
	}

	want := []interfaces.DailySales{
		{Date: "2025-03-10", Orders: 2, Revenue: 35000},
		{Date: "2025-03-11", Orders: 1, Revenue: 12000},
	}
	if !reflect.DeepEqual(daily, want) {
		t.Errorf("DailySales() = %+v, want %+v", daily, want)
	}
}

func TestHourlySales(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := newService(
		archived(domain.StatusCompleted, day.Add(12*time.Hour), 20000),
		archived(domain.StatusCompleted, day.Add(12*time.Hour+30*time.Minute), 10000),
		archived(domain.StatusCompleted, day.Add(19*time.Hour), 15000),
	)

	hourly, err := svc.HourlySales(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("HourlySales() error = %v", err)
	}
	if len(hourly) != 24 {
		t.Fatalf("len(hourly) = %d, want 24", len(hourly))
	}
	if hourly[12].Orders != 2 || hourly[12].Revenue != 30000 {
		t.Errorf("hourly[12] = %+v, want 2 orders / 30000", hourly[12])
	}
	if hourly[19].Orders != 1 || hourly[19].Revenue != 15000 {
		t.Errorf("hourly[19] = %+v, want 1 order / 15000", hourly[19])
	}
	if hourly[0].Orders != 0 {
		t.Errorf("hourly[0] = %+v, want empty", hourly[0])
	}
}

func TestBestItems(t *testing.T) {
	monday := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newService(
		archived(domain.StatusCompleted, monday, 0,
			domain.OrderItem{Name: "Fried Chicken", UnitPrice: 18000, Quantity: 2},
			domain.OrderItem{Name: "Cola", UnitPrice: 2000, Quantity: 2},
		),
		archived(domain.StatusCompleted, monday, 0,
			domain.OrderItem{Name: "Cola", UnitPrice: 2000, Quantity: 3},
		),
		// Cancelled orders never count.
		archived(domain.StatusCancelled, monday, 0,
			domain.OrderItem{Name: "Fried Chicken", UnitPrice: 18000, Quantity: 5},
		),
	)

	items, err := svc.BestItems(context.Background(), monday, monday.AddDate(0, 0, 1), 10)
	if err != nil {
		t.Fatalf("BestItems() error = %v", err)
	}

	want := []interfaces.ItemSales{
		{Name: "Cola", Quantity: 5, Revenue: 10000},
		{Name: "Fried Chicken", Quantity: 2, Revenue: 36000},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("BestItems() = %+v, want %+v", items, want)
	}

	top, err := svc.BestItems(context.Background(), monday, monday.AddDate(0, 0, 1), 1)
	if err != nil {
		t.Fatalf("BestItems(limit=1) error = %v", err)
	}
	if len(top) != 1 || top[0].Name != "Cola" {
		t.Errorf("BestItems(limit=1) = %+v, want just Cola", top)
	}
}
