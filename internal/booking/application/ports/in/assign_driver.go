package in

import (
	"context"

	"towntriphub/internal/booking/domain"
)

// AssignDriverInput — запрос оператора на назначение водителя.
type AssignDriverInput struct {
	BookingID string
	DriverID  string
	Price     domain.Price
}

// AssignDriverOutput — результат успешного назначения.
type AssignDriverOutput struct {
	BookingID     string `json:"booking_id"`
	BookingNumber string `json:"booking_number"`
	DriverID      string `json:"driver_id"`
	Status        string `json:"status"`
	PriceAmount   string `json:"price_amount"`
	PriceCurrency string `json:"price_currency"`
	AssignedAt    string `json:"assigned_at"`
}

// AssignDriverUseCase — порт диспетчера.
type AssignDriverUseCase interface {
	Execute(ctx context.Context, input AssignDriverInput) (*AssignDriverOutput, error)
}
