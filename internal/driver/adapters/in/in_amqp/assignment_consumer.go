package in_amqp

import (
	"context"
	"encoding/json"

	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

// AssignmentConsumer слушает очередь booking.assigned и доставляет
// уведомление назначенному водителю через WebSocket
type AssignmentConsumer struct {
	mq             *mq.RabbitMQ
	driverNotifier out.DriverNotifier
	log            *logger.Logger
}

func NewAssignmentConsumer(
	mqConn *mq.RabbitMQ,
	driverNotifier out.DriverNotifier,
	log *logger.Logger,
) *AssignmentConsumer {
	return &AssignmentConsumer{
		mq:             mqConn,
		driverNotifier: driverNotifier,
		log:            log,
	}
}

// assignedEvent — нагрузка события booking.assigned из booking service.
type assignedEvent struct {
	BookingID      string         `json:"booking_id"`
	BookingNumber  string         `json:"booking_number"`
	Kind           string         `json:"kind"`
	AdditionalData map[string]any `json:"additional_data"`
}

// Start запускает консьюмер очереди booking.assigned
func (c *AssignmentConsumer) Start(ctx context.Context) error {
	c.log.Info(logger.Entry{
		Action:  "assignment_consumer_starting",
		Message: "starting booking assignment consumer",
	})

	return c.mq.Consume(ctx, mq.KeyBookingAssigned, "driver-service", func(msg amqp091.Delivery) {
		c.handleAssignment(ctx, msg)
	})
}

func (c *AssignmentConsumer) handleAssignment(ctx context.Context, msg amqp091.Delivery) {
	var event assignedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.log.Error(logger.Entry{
			Action:  "assignment_event_unmarshal_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, false) // без requeue: битое сообщение не станет валидным
		return
	}

	driverUserID, _ := event.AdditionalData["driver_user_id"].(string)
	if driverUserID == "" {
		c.log.Warn(logger.Entry{
			Action:    "assignment_event_missing_driver",
			Message:   "driver_user_id missing in event payload",
			BookingID: event.BookingID,
		})
		_ = msg.Nack(false, false)
		return
	}

	if !c.driverNotifier.IsDriverConnected(driverUserID) {
		// Водитель увидит назначение через GET /drivers/assignments/current
		c.log.Debug(logger.Entry{
			Action:    "driver_not_connected",
			Message:   "driver not connected to websocket, skipping push",
			BookingID: event.BookingID,
			Additional: map[string]any{
				"driver_user_id": driverUserID,
			},
		})
		_ = msg.Ack(false)
		return
	}

	priceAmount, _ := event.AdditionalData["price_amount"].(string)
	priceCurrency, _ := event.AdditionalData["price_currency"].(string)
	pickupAddress, _ := event.AdditionalData["pickup_address"].(string)
	destinationAddress, _ := event.AdditionalData["destination_address"].(string)
	assignedAt, _ := event.AdditionalData["assigned_at"].(string)

	notice := out.AssignmentNotice{
		BookingID:          event.BookingID,
		BookingNumber:      event.BookingNumber,
		Kind:               event.Kind,
		PickupAddress:      pickupAddress,
		DestinationAddress: destinationAddress,
		PriceAmount:        priceAmount,
		PriceCurrency:      priceCurrency,
		AssignedAt:         assignedAt,
	}

	if err := c.driverNotifier.SendAssignmentNotice(ctx, driverUserID, notice); err != nil {
		c.log.Error(logger.Entry{
			Action:    "send_assignment_notice_failed",
			Message:   err.Error(),
			BookingID: event.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		_ = msg.Nack(false, true) // requeue
		return
	}

	_ = msg.Ack(false)
}
