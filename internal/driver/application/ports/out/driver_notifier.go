package out

import "context"

// AssignmentNotice — push о новом назначении водителю.
type AssignmentNotice struct {
	BookingID          string `json:"booking_id"`
	BookingNumber      string `json:"booking_number"`
	Kind               string `json:"kind"`
	PickupAddress      string `json:"pickup_address"`
	DestinationAddress string `json:"destination_address"`
	PriceAmount        string `json:"price_amount"`
	PriceCurrency      string `json:"price_currency"`
	AssignedAt         string `json:"assigned_at"`
}

// DriverNotifier — realtime доставка уведомлений водителю.
type DriverNotifier interface {
	SendAssignmentNotice(ctx context.Context, driverUserID string, notice AssignmentNotice) error
	IsDriverConnected(driverUserID string) bool
}
