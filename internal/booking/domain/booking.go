package domain

import (
	"fmt"
	"strings"
	"time"

	"towntriphub/internal/shared/lifecycle"

	"github.com/shopspring/decimal"
)

// Kind — тип заказа: поездка или доставка посылки. Неизменяем после создания.
type Kind string

const (
	KindRide     Kind = "RIDE"
	KindDelivery Kind = "DELIVERY"
)

// ParseKind принимает значение из URL пути ("ride" | "delivery").
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindRide, KindDelivery:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Price — цена заказа; устанавливается атомарно вместе с водителем.
type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Validate проверяет сумму и код валюты (ISO 4217, например GMD).
func (p Price) Validate() error {
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidPrice)
	}
	if len(p.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidPrice)
	}
	return nil
}

// Booking — основная сущность заказа.
type Booking struct {
	ID                 string           `json:"id" db:"id"`
	BookingNumber      string           `json:"booking_number" db:"booking_number"`
	Kind               Kind             `json:"kind" db:"kind"`
	Status             lifecycle.Status `json:"status" db:"status"`
	OwnerID            string           `json:"owner_id" db:"owner_id"`
	DriverID           *string          `json:"driver_id,omitempty" db:"driver_id"`
	PriceAmount        *decimal.Decimal `json:"price_amount,omitempty" db:"price_amount"`
	PriceCurrency      *string          `json:"price_currency,omitempty" db:"price_currency"`
	PickupAddress      string           `json:"pickup_address" db:"pickup_address"`
	PickupLat          float64          `json:"pickup_lat" db:"pickup_lat"`
	PickupLng          float64          `json:"pickup_lng" db:"pickup_lng"`
	DestinationAddress string           `json:"destination_address" db:"destination_address"`
	DestinationLat     float64          `json:"destination_lat" db:"destination_lat"`
	DestinationLng     float64          `json:"destination_lng" db:"destination_lng"`
	CancelReason       *string          `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CancelledBy        *string          `json:"cancelled_by,omitempty" db:"cancelled_by"`
	RequestedAt        time.Time        `json:"requested_at" db:"requested_at"`
	AssignedAt         *time.Time       `json:"assigned_at,omitempty" db:"assigned_at"`
	EnRouteAt          *time.Time       `json:"en_route_at,omitempty" db:"en_route_at"`
	PickedUpAt         *time.Time       `json:"picked_up_at,omitempty" db:"picked_up_at"`
	InTransitAt        *time.Time       `json:"in_transit_at,omitempty" db:"in_transit_at"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty" db:"cancelled_at"`
	Version            int              `json:"version" db:"version"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// Driver — представление водителя внутри booking context,
// ровно те поля, которые нужны диспетчеру.
type Driver struct {
	ID                 string  `json:"id" db:"id"`
	UserID             string  `json:"user_id" db:"user_id"`
	ApprovalStatus     string  `json:"approval_status" db:"approval_status"`
	AvailabilityStatus string  `json:"availability_status" db:"availability_status"`
	ActiveBookingID    *string `json:"active_booking_id,omitempty" db:"active_booking_id"`
	AcceptsRides       bool    `json:"accepts_rides" db:"accepts_rides"`
	AcceptsDeliveries  bool    `json:"accepts_deliveries" db:"accepts_deliveries"`
	Version            int     `json:"version" db:"version"`
}

const (
	DriverApproved = "APPROVED"

	DriverOffline   = "OFFLINE"
	DriverAvailable = "AVAILABLE"
	DriverBusy      = "BUSY"
)

// Accepts сообщает, берет ли водитель заказы данного типа.
func (d *Driver) Accepts(kind Kind) bool {
	switch kind {
	case KindRide:
		return d.AcceptsRides
	case KindDelivery:
		return d.AcceptsDeliveries
	default:
		return false
	}
}

// ValidateCoordinates проверяет корректность координат.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidCoordinates)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidCoordinates)
	}
	return nil
}
