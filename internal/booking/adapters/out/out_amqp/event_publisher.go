package out_amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
)

// BookingEventPublisher публикует события заказов в RabbitMQ
type BookingEventPublisher struct {
	mq  *mq.RabbitMQ
	log *logger.Logger
}

// NewBookingEventPublisher создает новый publisher
func NewBookingEventPublisher(mqConn *mq.RabbitMQ, log *logger.Logger) *BookingEventPublisher {
	return &BookingEventPublisher{
		mq:  mqConn,
		log: log,
	}
}

// PublishBookingEvent публикует событие заказа в booking_topic exchange
func (p *BookingEventPublisher) PublishBookingEvent(ctx context.Context, routingKey string, data out.BookingEventData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
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

	p.log.Debug(logger.Entry{
		Action:    "booking_event_published",
		Message:   data.Status,
		BookingID: data.BookingID,
		Additional: map[string]any{
			"routing_key": routingKey,
		},
	})

	return nil
}
