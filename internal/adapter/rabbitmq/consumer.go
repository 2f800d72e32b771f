package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
	amqp "github.com/rabbitmq/amqp091-go"
)

type consumer struct {
	conn     Connection
	prefetch int
	logger   logger.Logger
}

func NewConsumer(conn Connection, prefetch int, logger logger.Logger) interfaces.MessageConsumer {
	return &consumer{conn: conn, prefetch: prefetch, logger: logger}
}

func (c *consumer) ConsumeIntake(ctx context.Context, handler interfaces.IntakeHandler) error {
	for {
		err := c.consumeIntakeWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Warn("intake_consumer_disconnected", "Intake consumer disconnected, reconnecting in 5 seconds", "", map[string]interface{}{
			"error": err.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) ConsumeNotifications(ctx context.Context, handler interfaces.NotificationHandler) error {
	for {
		err := c.consumeNotificationsWithReconnect(ctx, handler)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err == nil {
			return nil
		}

		c.logger.Warn("notifications_consumer_disconnected", "Notifications consumer disconnected, reconnecting in 5 seconds", "", map[string]interface{}{
			"error": err.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}

func (c *consumer) consumeIntakeWithReconnect(ctx context.Context, handler interfaces.IntakeHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if err := c.setupIntakeInfrastructure(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(intakeQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			if err := handler(ctx, msg.Body); err != nil {
				// Malformed or rejected intakes go to the DLQ for
				// operator triage, never back onto the queue.
				msg.Nack(false, false)
			} else {
				msg.Ack(false)
			}
		}
	}
}

func (c *consumer) consumeNotificationsWithReconnect(ctx context.Context, handler interfaces.NotificationHandler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	closeChan := ch.NotifyClose()

	if err := ch.ExchangeDeclare(notificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, "", notificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	msgs, err := ch.Consume(q.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-closeChan:
			if err != nil {
				return fmt.Errorf("channel closed: %w", err)
			}
			return fmt.Errorf("channel closed gracefully")

		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("messages channel closed")
			}

			// Notifications are advisory, handler errors are dropped.
			_ = handler(ctx, msg.Type, msg.Body)
		}
	}
}

func (c *consumer) setupIntakeInfrastructure(ch Channel) error {
	if err := ch.ExchangeDeclare(intakeExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare intake exchange: %w", err)
	}

	if err := ch.ExchangeDeclare(intakeDLQExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(intakeDLQQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	if err := ch.QueueBind(intakeDLQQueue, intakeRoutingKey, intakeDLQExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind DLQ: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange": intakeDLQExchange,
	}

	q, err := ch.QueueDeclare(intakeQueue, true, false, false, false, args)
	if err != nil {
		return fmt.Errorf("failed to declare intake queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, intakeRoutingKey, intakeExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind intake queue: %w", err)
	}

	return nil
}
