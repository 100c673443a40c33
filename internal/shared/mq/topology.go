package mq

import (
	"context"
	"fmt"

	"towntriphub/internal/shared/logger"
)

// Exchanges и routing keys жизненного цикла заказа.
const (
	ExchangeBooking = "booking_topic"
	ExchangeDriver  = "driver_topic"

	KeyBookingCreated       = "booking.created"
	KeyBookingAssigned      = "booking.assigned"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyBookingCompleted     = "booking.completed"
	KeyBookingCancelled     = "booking.cancelled"

	KeyDriverAvailabilityChanged = "driver.availability_changed"
)

// SetupTopology создает все exchanges, queues и bindings. Идемпотентно.
func SetupTopology(ctx context.Context, mq *RabbitMQ, log *logger.Logger) error {
	ch := mq.Channel()
	if ch == nil {
		return fmt.Errorf("rabbitmq channel not available")
	}

	for _, exchange := range []string{ExchangeBooking, ExchangeDriver} {
		if err := ch.ExchangeDeclare(
			exchange,
			"topic",
			true,  // durable
			false, // auto-deleted
			false, // internal
			false, // no-wait
			nil,   // args
		); err != nil {
			return fmt.Errorf("declare %s: %w", exchange, err)
		}
	}

	// Очереди booking_topic: routing key совпадает с именем очереди
	bookingQueues := []string{
		KeyBookingCreated,
		KeyBookingAssigned,
		KeyBookingStatusChanged,
		KeyBookingCompleted,
		KeyBookingCancelled,
	}
	for _, q := range bookingQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, ExchangeBooking, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	// Очереди driver_topic
	driverQueues := []string{
		KeyDriverAvailabilityChanged,
	}
	for _, q := range driverQueues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", q, err)
		}
		if err := ch.QueueBind(q, q, ExchangeDriver, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", q, err)
		}
	}

	log.Info(logger.Entry{
		Action:  "topology_setup_complete",
		Message: "all exchanges and queues created",
	})

	return nil
}
