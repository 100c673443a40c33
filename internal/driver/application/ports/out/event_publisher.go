package out

import "context"

// BookingEventData — нагрузка события смены статуса заказа.
type BookingEventData struct {
	BookingID      string         `json:"booking_id"`
	DriverID       string         `json:"driver_id,omitempty"`
	Status         string         `json:"status"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// DriverEventData — нагрузка события смены доступности водителя.
type DriverEventData struct {
	DriverID           string `json:"driver_id"`
	AvailabilityStatus string `json:"availability_status"`
}

// EventPublisher — публикация событий driver context.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, routingKey string, data BookingEventData) error
	PublishDriverEvent(ctx context.Context, routingKey string, data DriverEventData) error
}
