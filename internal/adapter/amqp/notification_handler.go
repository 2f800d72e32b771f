package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

// NotificationHandler prints status changes and alerts from the fanout
// exchange to the subscriber console. The message kind travels in the
// AMQP type property; both payloads share field names, so the kind is
// the only reliable way to tell them apart.
type NotificationHandler struct {
	logger logger.Logger
	out    io.Writer
}

func NewNotificationHandler(logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		logger: logger,
		out:    os.Stdout,
	}
}

func (h *NotificationHandler) HandleNotification(ctx context.Context, kind string, body []byte) error {
	switch kind {
	case interfaces.NotificationStatusChange:
		var msg interfaces.StatusChangeMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse status change", "", nil, err)
			return err
		}

		h.logger.Debug("notification_received", fmt.Sprintf("Status update for order #%d", msg.OrderNumber),
			msg.OrderID, map[string]interface{}{
				"order_number": msg.OrderNumber,
				"new_status":   msg.NewStatus,
			})

		fmt.Fprintf(h.out, "Order #%d: status changed from '%s' to '%s'\n",
			msg.OrderNumber, msg.OldStatus, msg.NewStatus)

	case interfaces.NotificationAlert:
		var msg interfaces.AlertMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			h.logger.Error("message_parse_failed", "Failed to parse alert", "", nil, err)
			return err
		}

		fmt.Fprintf(h.out, "[%s] %s\n", msg.Severity, msg.Message)

	default:
		h.logger.Warn("notification_skipped", "Unknown notification kind", "", map[string]interface{}{
			"kind": kind,
		})
	}

	return nil
}
