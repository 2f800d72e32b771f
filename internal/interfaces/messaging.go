package interfaces

import (
	"context"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IntakeMessage is the wire form of a new order on the intake queue.
type IntakeMessage struct {
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	OrderType       string              `json:"order_type"`
	Items           []IntakeItemMessage `json:"items"`
	TotalAmount     int                 `json:"total_amount"`
	StoreRequest    string              `json:"store_request,omitempty"`
	ExtrasRequest   string              `json:"extras_request,omitempty"`
	ReservationDate string              `json:"reservation_date,omitempty"`
	ReservationTime string              `json:"reservation_time,omitempty"`
}

type IntakeItemMessage struct {
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// StatusChangeMessage announces an applied transition to subscribers.
type StatusChangeMessage struct {
	OrderID     string        `json:"order_id"`
	OrderNumber int           `json:"order_number"`
	OldStatus   domain.Status `json:"old_status"`
	NewStatus   domain.Status `json:"new_status"`
	Reason      string        `json:"reason,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// AlertMessage is an advisory notification for the operator.
type AlertMessage struct {
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	OrderID   string    `json:"order_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifySink consumes notification requests emitted by the lifecycle
// engine. Failures are logged by the caller, never propagated into the
// state machine.
type NotifySink interface {
	StatusChanged(ctx context.Context, msg StatusChangeMessage) error
	Alert(ctx context.Context, msg AlertMessage) error
}

// PrintResult mirrors the printer bridge response.
type PrintResult struct {
	Success bool
	Reason  string
}

// PrintSink receives receipt print requests. The sink may spool
// asynchronously; the engine only records the outcome.
type PrintSink interface {
	RequestReceipt(ctx context.Context, order *domain.Order) (PrintResult, error)
}

// Notification message kinds, carried in the AMQP message type property
// so subscribers can decode the right payload.
const (
	NotificationStatusChange = "status_change"
	NotificationAlert        = "alert"
)

type (
	IntakeHandler       func(ctx context.Context, body []byte) error
	NotificationHandler func(ctx context.Context, kind string, body []byte) error
)

// MessageConsumer drains the intake and notification queues (Adapter/RabbitMQ).
type MessageConsumer interface {
	ConsumeIntake(ctx context.Context, handler IntakeHandler) error
	ConsumeNotifications(ctx context.Context, handler NotificationHandler) error
}
