package out

import (
	"context"

	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/lifecycle"
)

// AdvanceParams — параметры условного перехода статуса заказа.
type AdvanceParams struct {
	BookingID string
	Current   lifecycle.Status
	Next      lifecycle.Status
	Version   int
}

// ReleaseParams — параметры терминальной записи с освобождением водителя.
type ReleaseParams struct {
	BookingID string
	Version   int
	DriverID  string
	// Reason не пуст только для отмены
	Reason string
}

// AssignmentRepository — заказы назначенного водителя.
// Каждая мутация — условный UPDATE, охраняемый текущим статусом и версией.
type AssignmentRepository interface {
	FindByID(ctx context.Context, bookingID string) (*domain.Assignment, error)
	FindActiveByDriver(ctx context.Context, driverID string) (*domain.Assignment, error)

	// Advance делает один прямой шаг DRIVER_EN_ROUTE | PICKED_UP | IN_TRANSIT.
	Advance(ctx context.Context, params AdvanceParams) error

	// CompleteAndRelease пишет COMPLETED и освобождает водителя одной транзакцией.
	CompleteAndRelease(ctx context.Context, params ReleaseParams) error

	// CancelAndRelease пишет CANCELLED с причиной и освобождает водителя
	// одной транзакцией.
	CancelAndRelease(ctx context.Context, params ReleaseParams) error
}
