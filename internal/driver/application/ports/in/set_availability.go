package in

import "context"

// SetAvailabilityInput — смена доступности водителем.
type SetAvailabilityInput struct {
	UserID             string
	AvailabilityStatus string
}

// SetAvailabilityOutput — результат смены доступности.
type SetAvailabilityOutput struct {
	DriverID           string `json:"driver_id"`
	AvailabilityStatus string `json:"availability_status"`
}

// SetAvailabilityUseCase — порт трекера доступности.
type SetAvailabilityUseCase interface {
	Execute(ctx context.Context, input SetAvailabilityInput) (*SetAvailabilityOutput, error)
}
