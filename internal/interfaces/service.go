package interfaces

import (
	"context"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/domain"
)

// Clock supplies the current time to the engine. Injected so tests can
// drive transitions deterministically.
type Clock interface {
	Now() time.Time
}

// Settings is the read-only operator configuration the engine consults on
// every transition attempt.
type Settings struct {
	AutoAcceptEnabled bool
	AutoAcceptMinutes int

	MinOrderAmount        int
	MaxItemsPerOrder      int
	MaxOrdersPerHour      int
	MaxPreparationMinutes int
	CancelTimeoutMinutes  int
	DelayThresholdMinutes int
}

type SettingsProvider interface {
	Get() Settings
}

// IntakeCommand is a new order arriving from a channel platform or the
// operator terminal.
type IntakeCommand struct {
	CustomerName    string
	CustomerPhone   string
	OrderType       string
	Items           []IntakeItemCommand
	TotalAmount     int
	StoreRequest    string
	ExtrasRequest   string
	ReservationDate string
	ReservationTime string
}

type IntakeItemCommand struct {
	Name      string
	UnitPrice int
	Quantity  int
}

// LifecycleService owns every order state transition. UI actions and the
// periodic triggers all funnel through it.
type LifecycleService interface {
	Intake(ctx context.Context, cmd IntakeCommand) (*domain.Order, error)
	Accept(ctx context.Context, orderID string, prepMinutes int) (*domain.Order, error)
	Reject(ctx context.Context, orderID string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
	MarkReady(ctx context.Context, orderID string) (*domain.Order, error)
	ConfirmReady(ctx context.Context, orderID string) (*domain.Order, error)
	Complete(ctx context.Context, orderID string) (*domain.Order, error)

	Tick()
	RevalidateAll()
	CheckAlerts(ctx context.Context)

	Active() []*domain.Order
	Stats() OrderStats
}

// OrderStats is a snapshot of the active working set by status.
type OrderStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Completed int `json:"completed"`
	Flagged   int `json:"validation_errors"`
}

// ReportingService aggregates sales figures over the order history.
type ReportingService interface {
	Summary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
	HourlySales(ctx context.Context, from, to time.Time) ([]HourlySales, error)
	BestItems(ctx context.Context, from, to time.Time, limit int) ([]ItemSales, error)
}

type SalesSummary struct {
	Orders    int `json:"orders"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Revenue   int `json:"revenue"`
}

type DailySales struct {
	Date    string `json:"date"`
	Orders  int    `json:"orders"`
	Revenue int    `json:"revenue"`
}

type HourlySales struct {
	Hour    int `json:"hour"`
	Orders  int `json:"orders"`
	Revenue int `json:"revenue"`
}

type ItemSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int    `json:"revenue"`
}
