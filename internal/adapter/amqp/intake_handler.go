package amqp

import (
	"context"
	"encoding/json"

	"github.com/yumyum-pos/orderdesk/internal/adapter/logger"
	"github.com/yumyum-pos/orderdesk/internal/interfaces"
)

type IntakeHandler struct {
	service interfaces.LifecycleService
	logger  logger.Logger
}

func NewIntakeHandler(service interfaces.LifecycleService, logger logger.Logger) *IntakeHandler {
	return &IntakeHandler{
		service: service,
		logger:  logger,
	}
}

func (h *IntakeHandler) HandleIntake(ctx context.Context, body []byte) error {
	var msg interfaces.IntakeMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.Error("message_parse_failed", "Failed to parse intake message", "", nil, err)
		return err
	}

	cmd := interfaces.IntakeCommand{
		CustomerName:    msg.CustomerName,
		CustomerPhone:   msg.CustomerPhone,
		OrderType:       msg.OrderType,
		TotalAmount:     msg.TotalAmount,
		StoreRequest:    msg.StoreRequest,
		ExtrasRequest:   msg.ExtrasRequest,
		ReservationDate: msg.ReservationDate,
		ReservationTime: msg.ReservationTime,
	}
	for _, item := range msg.Items {
		cmd.Items = append(cmd.Items, interfaces.IntakeItemCommand{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	_, err := h.service.Intake(ctx, cmd)
	return err
}
