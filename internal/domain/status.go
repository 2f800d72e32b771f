package domain

import "time"

type OrderType string

const (
	OrderTypePackaging OrderType = "packaging"
	OrderTypeDineIn    OrderType = "dine_in"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// validTransitions is the closed transition table. Anything not listed
// here is an illegal transition.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled, StatusRejected},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusRejected:  {},
}

// IsTerminal reports whether no further transition is defined from s.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// StatusLog represents a log entry for order status changes
type StatusLog struct {
	ID        int
	OrderID   string
	Previous  Status
	Status    Status
	ChangedBy string
	Reason    string
	ChangedAt time.Time
}
