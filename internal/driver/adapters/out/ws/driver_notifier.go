package notification

import (
	"context"
	"encoding/json"
	"fmt"

	out "towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/ws"
)

type driverNotifier struct {
	hub *ws.Hub
	log *logger.Logger
}

func NewDriverNotifier(hub *ws.Hub, log *logger.Logger) out.DriverNotifier {
	return &driverNotifier{hub: hub, log: log}
}

func (n *driverNotifier) SendAssignmentNotice(ctx context.Context, driverUserID string, notice out.AssignmentNotice) error {
	message := map[string]any{
		"type":                "booking_assigned",
		"booking_id":          notice.BookingID,
		"booking_number":      notice.BookingNumber,
		"kind":                notice.Kind,
		"pickup_address":      notice.PickupAddress,
		"destination_address": notice.DestinationAddress,
		"price": map[string]any{
			"amount":   notice.PriceAmount,
			"currency": notice.PriceCurrency,
		},
		"assigned_at": notice.AssignedAt,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal assignment notice: %w", err)
	}

	if err := n.hub.SendToUser(driverUserID, body); err != nil {
		n.log.Warn(logger.Entry{
			Action:    "send_assignment_notice_failed",
			Message:   err.Error(),
			BookingID: notice.BookingID,
			Additional: map[string]any{
				"driver_user_id": driverUserID,
			},
		})
		return fmt.Errorf("send assignment notice: %w", err)
	}

	n.log.Info(logger.Entry{
		Action:    "assignment_notice_sent",
		Message:   "booking assignment pushed to driver",
		BookingID: notice.BookingID,
		Additional: map[string]any{
			"driver_user_id": driverUserID,
		},
	})

	return nil
}

func (n *driverNotifier) IsDriverConnected(driverUserID string) bool {
	return n.hub.IsUserConnected(driverUserID)
}
