// Package printer renders order receipts and spools them for the
// thermal printer bridge. The sink is deliberately decoupled from the
// order lifecycle: a printer outage can never strand an order.
package printer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

const receiptWidth = 40

type Sink struct {
	storeName string
	enabled   bool
	logger    logger.Logger

	mu    sync.Mutex
	spool io.Writer
}

func NewSink(storeName string, enabled bool, spool io.Writer, logger logger.Logger) *Sink {
	return &Sink{
		storeName: storeName,
		enabled:   enabled,
		spool:     spool,
		logger:    logger,
	}
}

func (s *Sink) RequestReceipt(ctx context.Context, order *domain.Order) (interfaces.PrintResult, error) {
	if !s.enabled {
		return interfaces.PrintResult{Success: false, Reason: "auto print disabled"}, nil
	}

	receipt := Render(s.storeName, order)

	s.mu.Lock()
	_, err := io.WriteString(s.spool, receipt)
	s.mu.Unlock()
	if err != nil {
		return interfaces.PrintResult{}, fmt.Errorf("failed to spool receipt: %w", err)
	}

	s.logger.Debug("receipt_spooled", "Receipt spooled for printing", order.ID, map[string]interface{}{
		"order_number": order.Number,
	})
	return interfaces.PrintResult{Success: true}, nil
}

// Render produces the text receipt: masked customer phone, order lines,
// requests and the expected completion time derived from the accepted
// preparation estimate.
func Render(storeName string, order *domain.Order) string {
	var b strings.Builder
	line := strings.Repeat("=", receiptWidth)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", line, center(storeName), line)
	fmt.Fprintf(&b, "Order #%d (%s)\n", order.Number, typeLabel(order.Type))
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Time: %s\n", order.CreatedAt.Format("15:04:05"))
	fmt.Fprintf(&b, "Customer: %s (%s)\n", order.CustomerName, MaskPhone(order.CustomerPhone))
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%-24s x%-3d %10d\n", item.Name, item.Quantity, item.UnitPrice*item.Quantity)
	}
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	fmt.Fprintf(&b, "%-28s %10d\n", "TOTAL", order.TotalAmount)

	if order.Requests.Store != "" {
		fmt.Fprintf(&b, "Request: %s\n", order.Requests.Store)
	}
	if order.Requests.Extras != "" {
		fmt.Fprintf(&b, "Extras: %s\n", order.Requests.Extras)
	}

	if order.PreparationMinutes > 0 {
		expected := order.CreatedAt.Add(time.Duration(order.PreparationMinutes) * time.Minute)
		fmt.Fprintf(&b, "Expected ready: %s\n", expected.Format("15:04:05"))
	}

	fmt.Fprintf(&b, "%s\nThank you for your order, %s!\n%s\n\n", line, order.CustomerName, line)
	return b.String()
}

// MaskPhone hides the middle digit group of a 3-4-4 number. Anything
// unrecognized masks completely.
func MaskPhone(phone string) string {
	digits := strings.ReplaceAll(phone, "-", "")
	if len(digits) == 11 {
		return digits[:3] + "-****-" + digits[7:]
	}
	if len(digits) == 10 {
		return digits[:2] + "-****-" + digits[6:]
	}
	return "***-****-****"
}

func typeLabel(t domain.OrderType) string {
	switch t {
	case domain.OrderTypePackaging:
		return "packaging"
	case domain.OrderTypeDineIn:
		return "dine-in"
	default:
		return string(t)
	}
}

func center(s string) string {
	if len(s) >= receiptWidth {
		return s
	}
	pad := (receiptWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
