package domain

import "errors"

var (
	// ErrBookingNotFound возвращается когда заказ не найден
	ErrBookingNotFound = errors.New("booking not found")

	// ErrDriverNotFound возвращается когда водитель не найден
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidKind возвращается при неподдерживаемом типе заказа
	ErrInvalidKind = errors.New("invalid booking kind")

	// ErrInvalidPrice возвращается при некорректной цене
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidCoordinates возвращается при невалидных координатах
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrBookingNotPending возвращается при назначении на заказ вне статуса PENDING,
	// включая повторное назначение уже назначенного заказа
	ErrBookingNotPending = errors.New("booking is no longer pending")

	// ErrDriverNotApproved возвращается когда водитель не прошел одобрение
	ErrDriverNotApproved = errors.New("driver is not approved")

	// ErrDriverOffline возвращается когда водитель оффлайн
	ErrDriverOffline = errors.New("driver is offline")

	// ErrDriverBusy возвращается когда у водителя уже есть активный заказ
	ErrDriverBusy = errors.New("driver already has an active booking")

	// ErrPreferenceMismatch возвращается когда водитель не берет заказы этого типа
	ErrPreferenceMismatch = errors.New("driver does not accept this booking kind")

	// ErrReasonRequired возвращается при отмене без причины
	ErrReasonRequired = errors.New("cancellation reason is required")

	// ErrNotBookingOwner возвращается когда актор не владелец заказа
	ErrNotBookingOwner = errors.New("actor is not the booking owner")

	// ErrRiderCancelNotPending возвращается когда райдер отменяет заказ
	// после назначения водителя: райдеру доступна отмена только из PENDING
	ErrRiderCancelNotPending = errors.New("rider may cancel only a pending booking")

	// ErrBookingTerminal возвращается при изменении завершенного или отмененного заказа
	ErrBookingTerminal = errors.New("booking is already completed or cancelled")

	// ErrVersionConflict возвращается когда условная запись проиграла гонку
	ErrVersionConflict = errors.New("booking was modified concurrently")
)
