package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Preparation time is operator-chosen in 5 minute steps.
const (
	MinPreparationMinutes  = 5
	MaxPreparationMinutes  = 60
	PreparationMinutesStep = 5
)

// Order represents a pickup order entity
type Order struct {
	ID              string
	Number          int // per-day display sequence, not globally unique
	Type            OrderType
	CustomerName    string
	CustomerPhone   string
	Items           []OrderItem
	TotalAmount     int
	Requests        Requests
	ReservationDate string
	ReservationTime string
	Status          Status

	CreatedAt   time.Time
	AcceptedAt  *time.Time
	ReadyAt     *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	RejectedAt  *time.Time

	PreparationMinutes int
	ElapsedSeconds     int

	// ValidationErrors is transient display state, recomputed on each
	// revalidation sweep. It is never persisted.
	ValidationErrors []string

	ReceiptPrinted bool
}

// OrderItem represents a line in an order
type OrderItem struct {
	Name      string
	UnitPrice int
	Quantity  int
}

// Requests carries free-form customer notes printed on the receipt.
type Requests struct {
	Store  string
	Extras string
}

// NewOrder creates a pending order with a fresh id. The total amount is
// derived from the items when the caller does not supply one.
func NewOrder(customerName, customerPhone string, orderType OrderType, items []OrderItem, totalAmount int, now time.Time) (*Order, error) {
	if orderType != OrderTypePackaging && orderType != OrderTypeDineIn {
		return nil, ErrInvalidOrderType
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidItemQuantity
		}
	}

	order := &Order{
		ID:            uuid.NewString(),
		Type:          orderType,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
		TotalAmount:   totalAmount,
		Status:        StatusPending,
		CreatedAt:     now,
	}

	if order.TotalAmount == 0 {
		order.TotalAmount = order.ItemsTotal()
	}

	return order, nil
}

// Clone returns a detached copy of the order. Slices are copied too, so
// the caller can hold the result while the live record keeps changing.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = append([]OrderItem(nil), o.Items...)
	clone.ValidationErrors = append([]string(nil), o.ValidationErrors...)
	return &clone
}

// ItemsTotal sums unit price times quantity over the items.
func (o *Order) ItemsTotal() int {
	total := 0
	for _, item := range o.Items {
		total += item.UnitPrice * item.Quantity
	}
	return total
}

// MenuCount returns the number of distinct menu lines.
func (o *Order) MenuCount() int {
	return len(o.Items)
}

// CanTransitionTo checks the transition table for the order's current status.
func (o *Order) CanTransitionTo(next Status) bool {
	for _, s := range validTransitions[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to next and stamps the matching timestamp
// exactly once. The caller is responsible for guard checks beyond the
// transition table itself.
func (o *Order) TransitionTo(next Status, now time.Time) error {
	if !o.CanTransitionTo(next) {
		return ErrInvalidStatusTransition
	}

	o.Status = next

	ts := now
	switch next {
	case StatusPreparing:
		if o.AcceptedAt == nil {
			o.AcceptedAt = &ts
		}
	case StatusReady:
		if o.ReadyAt == nil {
			o.ReadyAt = &ts
		}
	case StatusCompleted:
		if o.CompletedAt == nil {
			o.CompletedAt = &ts
		}
	case StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &ts
		}
	case StatusRejected:
		if o.RejectedAt == nil {
			o.RejectedAt = &ts
		}
	}

	return nil
}

// Counting reports whether the elapsed counter is still running. The
// counter freezes once the order leaves Pending/Preparing.
func (o *Order) Counting() bool {
	return o.Status == StatusPending || o.Status == StatusPreparing
}

// ElapsedMinutes derives whole minutes from the elapsed counter.
func (o *Order) ElapsedMinutes() int {
	return o.ElapsedSeconds / 60
}

// ValidPreparationMinutes reports whether m is a permitted operator
// estimate: within [5, 60] in steps of 5.
func ValidPreparationMinutes(m int) bool {
	if m < MinPreparationMinutes || m > MaxPreparationMinutes {
		return false
	}
	return m%PreparationMinutesStep == 0
}

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidOrderType        = errors.New("invalid order type")
	ErrInvalidItemQuantity     = errors.New("item quantity must be at least 1")
)
