package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
)

// DriverEventPublisher публикует события driver context в RabbitMQ
type DriverEventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

// NewDriverEventPublisher создает новый publisher
func NewDriverEventPublisher(mqConn *mq.RabbitMQ, log *logger.Logger) *DriverEventPublisher {
	return &DriverEventPublisher{
		mq:  mqConn,
		log: log,
	}
}

// PublishBookingEvent публикует смену статуса заказа в booking_topic
func (p *DriverEventPublisher) PublishBookingEvent(ctx context.Context, routingKey string, data out.BookingEventData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	if err := p.mq.Publish(ctx, mq.ExchangeBooking, routingKey, payload); err != nil {
		p.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: data.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"routing_key": routingKey,
			},
		})
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	return nil
}

// PublishDriverEvent публикует смену доступности водителя в driver_topic
func (p *DriverEventPublisher) PublishDriverEvent(ctx context.Context, routingKey string, data out.DriverEventData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal driver event: %w", err)
	}

	if err := p.mq.Publish(ctx, mq.ExchangeDriver, routingKey, payload); err != nil {
		p.log.Error(logger.Entry{
			Action:  "publish_driver_event_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"routing_key": routingKey,
				"driver_id":   data.DriverID,
			},
		})
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	return nil
}
