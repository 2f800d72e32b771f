package printer

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/domain"
)

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "o-1",
		Number:        7,
		Type:          domain.OrderTypePackaging,
		CustomerName:  "Kim",
		CustomerPhone: "010-1234-5678",
		Items: []domain.OrderItem{
			{Name: "Fried Chicken", UnitPrice: 18000, Quantity: 1},
			{Name: "Cola", UnitPrice: 2000, Quantity: 2},
		},
		TotalAmount:        22000,
		Requests:           domain.Requests{Store: "extra sauce"},
		Status:             domain.StatusPreparing,
		CreatedAt:          time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		PreparationMinutes: 30,
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"010-1234-5678", "010-****-5678"},
		{"01012345678", "010-****-5678"},
		{"02-1234-5678", "02-****-5678"},
		{"12345", "***-****-****"},
		{"", "***-****-****"},
	}

	for _, tt := range tests {
		if got := MaskPhone(tt.phone); got != tt.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	receipt := Render("YumYum Pickup", sampleOrder())

	for _, want := range []string{
		"YumYum Pickup",
		"Order #7 (packaging)",
		"Date: 2025-03-10",
		"Kim (010-****-5678)",
		"Fried Chicken",
		"Cola",
		"22000",
		"Request: extra sauce",
		"Expected ready: 12:30:00",
	} {
		if !strings.Contains(receipt, want) {
			t.Errorf("receipt missing %q\n%s", want, receipt)
		}
	}

	if strings.Contains(receipt, "010-1234-5678") {
		t.Error("receipt contains unmasked phone number")
	}
}

func TestRequestReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("spools when enabled", func(t *testing.T) {
		var spool strings.Builder
		sink := NewSink("YumYum Pickup", true, &spool, logger.NewWriter("test", io.Discard))

		result, err := sink.RequestReceipt(ctx, sampleOrder())
		if err != nil {
			t.Fatalf("RequestReceipt() error = %v", err)
		}
		if !result.Success {
			t.Fatalf("Success = false, reason = %q", result.Reason)
		}
		if !strings.Contains(spool.String(), "Order #7") {
			t.Error("spool does not contain the rendered receipt")
		}
	})

	t.Run("skips when disabled", func(t *testing.T) {
		var spool strings.Builder
		sink := NewSink("YumYum Pickup", false, &spool, logger.NewWriter("test", io.Discard))

		result, err := sink.RequestReceipt(ctx, sampleOrder())
		if err != nil {
			t.Fatalf("RequestReceipt() error = %v", err)
		}
		if result.Success {
			t.Error("Success = true with printing disabled")
		}
		if spool.Len() != 0 {
			t.Error("spool written while disabled")
		}
	})
}
