package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

const (
	notificationsExchange = "pos_notifications"
	intakeExchange        = "orders_direct"
	intakeQueue           = "orders_intake"
	intakeDLQExchange     = "orders_dlq"
	intakeDLQQueue        = "orders_intake_dlq"
	intakeRoutingKey      = "order.new"
)

type publisher struct {
	conn Connection
}

// NewPublisher returns a NotifySink that fans status changes and alerts
// out to notification subscribers.
func NewPublisher(conn Connection) interfaces.NotifySink {
	return &publisher{conn: conn}
}

func (p *publisher) StatusChanged(ctx context.Context, msg interfaces.StatusChangeMessage) error {
	return p.publish(interfaces.NotificationStatusChange, msg)
}

func (p *publisher) Alert(ctx context.Context, msg interfaces.AlertMessage) error {
	return p.publish(interfaces.NotificationAlert, msg)
}

func (p *publisher) publish(kind string, payload any) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.Publish(notificationsExchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Type:        kind,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}
