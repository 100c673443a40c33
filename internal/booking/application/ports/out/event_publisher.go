package out

import "context"

// BookingEventData — полезная нагрузка события жизненного цикла заказа.
type BookingEventData struct {
	BookingID      string         `json:"booking_id"`
	BookingNumber  string         `json:"booking_number"`
	OwnerID        string         `json:"owner_id"`
	DriverID       *string        `json:"driver_id,omitempty"`
	Kind           string         `json:"kind"`
	Status         string         `json:"status"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// EventPublisher — публикация событий заказа в booking_topic.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, routingKey string, data BookingEventData) error
}
