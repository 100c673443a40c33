package domain

import "errors"

var (
	// ErrDriverNotFound возвращается когда водитель не найден
	ErrDriverNotFound = errors.New("driver not found")

	// ErrDriverNotApproved возвращается когда водитель не прошел одобрение
	ErrDriverNotApproved = errors.New("driver is not approved")

	// ErrInvalidAvailability возвращается для значения вне OFFLINE|AVAILABLE|BUSY
	ErrInvalidAvailability = errors.New("invalid availability status")

	// ErrOfflineWithActiveBooking возвращается при уходе в OFFLINE с активным заказом
	ErrOfflineWithActiveBooking = errors.New("driver with an active booking cannot go offline")

	// ErrNoActiveAssignment возвращается когда у водителя нет активного заказа
	ErrNoActiveAssignment = errors.New("driver has no active assignment")

	// ErrAssignmentNotOwned возвращается когда заказ привязан к другому водителю
	ErrAssignmentNotOwned = errors.New("assignment is bound to another driver")

	// ErrBookingNotFound возвращается когда заказ не найден
	ErrBookingNotFound = errors.New("booking not found")

	// ErrReasonRequired возвращается при отмене без причины
	ErrReasonRequired = errors.New("cancellation reason is required")

	// ErrVersionConflict возвращается когда условная запись проиграла гонку
	ErrVersionConflict = errors.New("record was modified concurrently")
)
