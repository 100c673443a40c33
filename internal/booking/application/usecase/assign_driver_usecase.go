package usecase

import (
	"context"
	"fmt"
	"time"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
	"towntriphub/internal/shared/observability"
)

// AssignDriverService реализует AssignDriverUseCase — диспетчер заказов.
// Привязка водителя, цены и статуса — одна атомарная запись: либо обе
// стороны (заказ и водитель) зафиксированы, либо ни одна.
type AssignDriverService struct {
	bookingRepo out.BookingRepository
	driverRepo  out.DriverRepository
	publisher   out.EventPublisher
	log         *logger.Logger
}

// NewAssignDriverService создает сервис назначения водителя
func NewAssignDriverService(
	bookingRepo out.BookingRepository,
	driverRepo out.DriverRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *AssignDriverService {
	return &AssignDriverService{
		bookingRepo: bookingRepo,
		driverRepo:  driverRepo,
		publisher:   publisher,
		log:         log,
	}
}

// Execute проверяет предусловия и выполняет атомарную привязку.
// При любой ошибке ни заказ, ни водитель не изменяются.
func (s *AssignDriverService) Execute(ctx context.Context, input in.AssignDriverInput) (*in.AssignDriverOutput, error) {
	if err := input.Price.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	// Повторное назначение уже назначенного заказа — конфликт, не no-op
	if booking.Status != lifecycle.StatusPending {
		s.log.Warn(logger.Entry{
			Action:    "assign_booking_not_pending",
			Message:   fmt.Sprintf("booking %s has status %s", booking.ID, booking.Status),
			BookingID: booking.ID,
		})
		return nil, fmt.Errorf("%w: current status %s", domain.ErrBookingNotPending, booking.Status)
	}

	// Переход PENDING -> DRIVER_ASSIGNED принадлежит оператору
	if err := lifecycle.Validate(booking.Status, lifecycle.StatusDriverAssigned, lifecycle.RoleOperator); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.FindByID(ctx, input.DriverID)
	if err != nil {
		return nil, err
	}

	if driver.ApprovalStatus != domain.DriverApproved {
		return nil, fmt.Errorf("%w: approval status %s", domain.ErrDriverNotApproved, driver.ApprovalStatus)
	}
	if driver.AvailabilityStatus == domain.DriverOffline {
		return nil, domain.ErrDriverOffline
	}
	if driver.ActiveBookingID != nil {
		return nil, fmt.Errorf("%w: active booking %s", domain.ErrDriverBusy, *driver.ActiveBookingID)
	}
	if !driver.Accepts(booking.Kind) {
		return nil, fmt.Errorf("%w: kind %s", domain.ErrPreferenceMismatch, booking.Kind)
	}

	// Атомарная привязка; проигравший гонку UPDATE дает конфликт без мутаций
	err = s.bookingRepo.AssignDriver(ctx, out.AssignDriverParams{
		BookingID:      booking.ID,
		BookingVersion: booking.Version,
		DriverID:       driver.ID,
		DriverVersion:  driver.Version,
		Amount:         input.Price.Amount,
		Currency:       input.Price.Currency,
	})
	if err != nil {
		observability.ConflictsTotal.Inc()
		s.log.Warn(logger.Entry{
			Action:    "assign_driver_bind_rejected",
			Message:   err.Error(),
			BookingID: booking.ID,
			Additional: map[string]any{
				"driver_id": driver.ID,
			},
		})
		return nil, err
	}

	observability.BookingsAssignedTotal.Inc()
	assignedAt := time.Now().UTC()

	s.log.Info(logger.Entry{
		Action:    "driver_assigned",
		Message:   fmt.Sprintf("driver %s bound to booking %s", driver.ID, booking.ID),
		BookingID: booking.ID,
		Additional: map[string]any{
			"driver_id":      driver.ID,
			"price_amount":   input.Price.Amount.String(),
			"price_currency": input.Price.Currency,
		},
	})

	eventData := out.BookingEventData{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		OwnerID:       booking.OwnerID,
		DriverID:      &driver.ID,
		Kind:          string(booking.Kind),
		Status:        string(lifecycle.StatusDriverAssigned),
		AdditionalData: map[string]any{
			"driver_user_id":      driver.UserID,
			"price_amount":        input.Price.Amount.String(),
			"price_currency":      input.Price.Currency,
			"pickup_address":      booking.PickupAddress,
			"destination_address": booking.DestinationAddress,
			"assigned_at":         assignedAt.Format(time.RFC3339),
		},
	}

	if err := s.publisher.PublishBookingEvent(ctx, mq.KeyBookingAssigned, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.AssignDriverOutput{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		DriverID:      driver.ID,
		Status:        string(lifecycle.StatusDriverAssigned),
		PriceAmount:   input.Price.Amount.String(),
		PriceCurrency: input.Price.Currency,
		AssignedAt:    assignedAt.Format(time.RFC3339),
	}, nil
}
