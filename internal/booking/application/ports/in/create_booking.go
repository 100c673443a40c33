package in

import "context"

// CreateBookingInput — данные для создания заказа райдером.
type CreateBookingInput struct {
	OwnerID            string
	Kind               string
	PickupAddress      string
	PickupLat          float64
	PickupLng          float64
	DestinationAddress string
	DestinationLat     float64
	DestinationLng     float64
}

// CreateBookingOutput — результат создания заказа.
type CreateBookingOutput struct {
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	RequestedAt   string `json:"requested_at"`
}

// CreateBookingUseCase — порт создания заказа.
type CreateBookingUseCase interface {
	Execute(ctx context.Context, input CreateBookingInput) (*CreateBookingOutput, error)
}
