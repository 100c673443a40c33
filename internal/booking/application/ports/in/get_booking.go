package in

import (
	"context"

	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
)

// GetBookingInput — запрос заказа; видимость зависит от роли актора.
type GetBookingInput struct {
	BookingID string
	ActorID   string
	ActorRole lifecycle.Role
}

// GetBookingUseCase — порт чтения заказа.
type GetBookingUseCase interface {
	Execute(ctx context.Context, input GetBookingInput) (*domain.Booking, error)
}
