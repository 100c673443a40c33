package out

import (
	"context"

	"towntriphub/internal/driver/domain"
)

// DriverRepository — хранилище водителей driver context.
type DriverRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Driver, error)

	// SetAvailability — условная запись по версии; проигравший гонку
	// получает domain.ErrVersionConflict.
	SetAvailability(ctx context.Context, driverID string, status domain.AvailabilityStatus, version int) error
}
