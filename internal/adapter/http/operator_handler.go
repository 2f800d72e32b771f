package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/app/lifecycle"
	"github.com/yumyum-pos/orderdesk/internal/domain"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

// OperatorHandler exposes the order terminal actions over HTTP: intake,
// the active board, and the per-order transition endpoints.
type OperatorHandler struct {
	service interfaces.LifecycleService
	history interfaces.HistoryRepository
	logger  logger.Logger
}

func NewOperatorHandler(service interfaces.LifecycleService, history interfaces.HistoryRepository, logger logger.Logger) *OperatorHandler {
	return &OperatorHandler{
		service: service,
		history: history,
		logger:  logger,
	}
}

type IntakeRequest struct {
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	OrderType       string              `json:"order_type"`
	Items           []IntakeItemRequest `json:"items"`
	TotalAmount     int                 `json:"total_amount"`
	StoreRequest    string              `json:"store_request,omitempty"`
	ExtrasRequest   string              `json:"extras_request,omitempty"`
	ReservationDate string              `json:"reservation_date,omitempty"`
	ReservationTime string              `json:"reservation_time,omitempty"`
}

type IntakeItemRequest struct {
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type AcceptRequest struct {
	PreparationMinutes int `json:"preparation_minutes"`
}

type OrderResponse struct {
	ID                 string     `json:"id"`
	Number             int        `json:"number"`
	Type               string     `json:"type"`
	CustomerName       string     `json:"customer_name"`
	CustomerPhone      string     `json:"customer_phone"`
	Items              []ItemView `json:"items"`
	TotalAmount        int        `json:"total_amount"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	ReadyAt            *time.Time `json:"ready_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	PreparationMinutes int        `json:"preparation_minutes,omitempty"`
	ElapsedSeconds     int        `json:"elapsed_seconds"`
	ValidationErrors   []string   `json:"validation_errors,omitempty"`
	ReceiptPrinted     bool       `json:"receipt_printed"`
}

type ItemView struct {
	Name      string `json:"name"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// HandleOrders dispatches /orders and /orders/{id}/{action}.
func (h *OperatorHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodPost:
			h.intake(w, r)
		case http.MethodGet:
			h.listActive(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "stats":
		h.stats(w, r)
	case len(parts) == 3 && parts[2] == "history":
		h.statusHistory(w, r, parts[1])
	case len(parts) >= 3:
		h.transition(w, r, parts[1], strings.Join(parts[2:], "/"))
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *OperatorHandler) intake(w http.ResponseWriter, r *http.Request) {
	var req IntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	cmd := interfaces.IntakeCommand{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		OrderType:       req.OrderType,
		TotalAmount:     req.TotalAmount,
		StoreRequest:    req.StoreRequest,
		ExtrasRequest:   req.ExtrasRequest,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.IntakeItemCommand{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.service.Intake(r.Context(), cmd)
	if err != nil {
		h.logger.Error("intake_failed", "Failed to take in order", "", nil, err)
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OperatorHandler) listActive(w http.ResponseWriter, r *http.Request) {
	orders := h.service.Active()

	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *OperatorHandler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.respondJSON(w, http.StatusOK, h.service.Stats())
}

func (h *OperatorHandler) statusHistory(w http.ResponseWriter, r *http.Request, orderID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logs, err := h.history.StatusHistory(r.Context(), orderID)
	if err != nil {
		h.logger.Error("history_query_failed", "Failed to load status history", "", nil, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]map[string]interface{}, len(logs))
	for i, entry := range logs {
		resp[i] = map[string]interface{}{
			"previous_status": entry.Previous,
			"status":          entry.Status,
			"changed_by":      entry.ChangedBy,
			"reason":          entry.Reason,
			"changed_at":      entry.ChangedAt,
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *OperatorHandler) transition(w http.ResponseWriter, r *http.Request, orderID, action string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		order *domain.Order
		err   error
	)

	switch action {
	case "accept":
		var req AcceptRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
		order, err = h.service.Accept(r.Context(), orderID, req.PreparationMinutes)
	case "reject":
		order, err = h.service.Reject(r.Context(), orderID)
	case "cancel":
		order, err = h.service.Cancel(r.Context(), orderID)
	case "ready":
		order, err = h.service.MarkReady(r.Context(), orderID)
	case "ready/confirm":
		order, err = h.service.ConfirmReady(r.Context(), orderID)
	case "complete":
		order, err = h.service.Complete(r.Context(), orderID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OperatorHandler) respondServiceError(w http.ResponseWriter, err error) {
	var guardErr *lifecycle.GuardError
	var validationErr *lifecycle.ValidationError

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		h.respondError(w, http.StatusNotFound, "Order not found", nil)
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusUnprocessableEntity, "Order validation failed", validationErr.Errors)
	case errors.As(err, &guardErr):
		h.respondError(w, http.StatusConflict, guardErr.Reason, nil)
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		h.respondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidOrderType), errors.Is(err, domain.ErrInvalidItemQuantity):
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

func (h *OperatorHandler) respondError(w http.ResponseWriter, status int, message string, details []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Errors: details})
}

func (h *OperatorHandler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]ItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemView{Name: item.Name, UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}

	return OrderResponse{
		ID:                 order.ID,
		Number:             order.Number,
		Type:               string(order.Type),
		CustomerName:       order.CustomerName,
		CustomerPhone:      order.CustomerPhone,
		Items:              items,
		TotalAmount:        order.TotalAmount,
		Status:             string(order.Status),
		CreatedAt:          order.CreatedAt,
		AcceptedAt:         order.AcceptedAt,
		ReadyAt:            order.ReadyAt,
		CompletedAt:        order.CompletedAt,
		PreparationMinutes: order.PreparationMinutes,
		ElapsedSeconds:     order.ElapsedSeconds,
		ValidationErrors:   order.ValidationErrors,
		ReceiptPrinted:     order.ReceiptPrinted,
	}
}
