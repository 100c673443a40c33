package domain

import (
	"fmt"
	"strings"
	"time"

	"towntriphub/internal/shared/lifecycle"
)

// ApprovalStatus — статус одобрения водителя оператором.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING_APPROVAL"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalSuspended ApprovalStatus = "SUSPENDED"
)

// AvailabilityStatus — грубое состояние доступности водителя.
// Имеет смысл только для одобренных водителей.
type AvailabilityStatus string

const (
	AvailabilityOffline   AvailabilityStatus = "OFFLINE"
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityBusy      AvailabilityStatus = "BUSY"
)

// ParseAvailabilityStatus конвертирует строку запроса в AvailabilityStatus.
func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	status := AvailabilityStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case AvailabilityOffline, AvailabilityAvailable, AvailabilityBusy:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAvailability, s)
}

// Driver — сущность водителя.
type Driver struct {
	ID                 string             `json:"id" db:"id"`
	UserID             string             `json:"user_id" db:"user_id"`
	ApprovalStatus     ApprovalStatus     `json:"approval_status" db:"approval_status"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status" db:"availability_status"`
	ActiveBookingID    *string            `json:"active_booking_id,omitempty" db:"active_booking_id"`
	AcceptsRides       bool               `json:"accepts_rides" db:"accepts_rides"`
	AcceptsDeliveries  bool               `json:"accepts_deliveries" db:"accepts_deliveries"`
	Version            int                `json:"version" db:"version"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// CanSetAvailability проверяет смену доступности. Любой переход разрешен,
// кроме ухода в OFFLINE с активным заказом: заказ надо завершить или
// отменить, а не бросить.
func (d *Driver) CanSetAvailability(status AvailabilityStatus) error {
	if d.ApprovalStatus != ApprovalApproved {
		return ErrDriverNotApproved
	}
	if status == AvailabilityOffline && d.ActiveBookingID != nil {
		return ErrOfflineWithActiveBooking
	}
	return nil
}

// Assignment — заказ глазами назначенного водителя.
type Assignment struct {
	BookingID          string           `json:"booking_id" db:"id"`
	BookingNumber      string           `json:"booking_number" db:"booking_number"`
	Kind               string           `json:"kind" db:"kind"`
	Status             lifecycle.Status `json:"status" db:"status"`
	OwnerID            string           `json:"owner_id" db:"owner_id"`
	DriverID           string           `json:"driver_id" db:"driver_id"`
	PriceAmount        *string          `json:"price_amount,omitempty" db:"price_amount"`
	PriceCurrency      *string          `json:"price_currency,omitempty" db:"price_currency"`
	PickupAddress      string           `json:"pickup_address" db:"pickup_address"`
	DestinationAddress string           `json:"destination_address" db:"destination_address"`
	Version            int              `json:"version" db:"version"`
}
