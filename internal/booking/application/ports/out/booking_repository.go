package out

import (
	"context"

	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"

	"github.com/shopspring/decimal"
)

// AssignDriverParams — параметры атомарной привязки водителя к заказу.
// Обе версии участвуют в условной записи: проигравший гонку получает конфликт.
type AssignDriverParams struct {
	BookingID      string
	BookingVersion int
	DriverID       string
	DriverVersion  int
	Amount         decimal.Decimal
	Currency       string
}

// CancelBookingParams — параметры терминальной записи отмены.
type CancelBookingParams struct {
	BookingID string
	Version   int
	Reason    string
	ActorRole lifecycle.Role
	// DriverID не nil — освободить водителя в той же транзакции
	DriverID *string
}

// BookingRepository — порт хранилища заказов booking context.
// Все мутации — условные записи, проверяемые по статусу и версии.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, bookingID string) (*domain.Booking, error)

	// AssignDriver выполняет привязку одной транзакцией: драйвер, цена и статус
	// на стороне заказа плюс active_booking_id на стороне водителя.
	// Частичная привязка невозможна: любой неподтвержденный UPDATE откатывает все.
	AssignDriver(ctx context.Context, params AssignDriverParams) error

	// Cancel записывает терминальный статус и освобождает водителя, если назначен.
	Cancel(ctx context.Context, params CancelBookingParams) error
}

// DriverRepository — чтение водителей из booking context.
type DriverRepository interface {
	FindByID(ctx context.Context, driverID string) (*domain.Driver, error)
}
