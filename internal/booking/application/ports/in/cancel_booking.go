package in

import (
	"context"

	"towntriphub/internal/shared/lifecycle"
)

// CancelBookingInput — запрос на отмену заказа со стороны райдера или оператора.
type CancelBookingInput struct {
	BookingID string
	ActorID   string
	ActorRole lifecycle.Role
	Reason    string
}

// CancelBookingOutput — результат отмены.
type CancelBookingOutput struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	CancelledBy string `json:"cancelled_by"`
	CancelledAt string `json:"cancelled_at"`
}

// CancelBookingUseCase — порт обработчика отмены.
type CancelBookingUseCase interface {
	Execute(ctx context.Context, input CancelBookingInput) (*CancelBookingOutput, error)
}
