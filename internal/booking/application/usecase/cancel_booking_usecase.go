package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
	"towntriphub/internal/shared/observability"
)

// CancelBookingService реализует CancelBookingUseCase для райдера и оператора.
// Асимметрия ролей: райдер отменяет только свой заказ и только из PENDING,
// оператор — любой нетерминальный заказ.
type CancelBookingService struct {
	bookingRepo out.BookingRepository
	publisher   out.EventPublisher
	log         *logger.Logger
}

// NewCancelBookingService создает сервис отмены
func NewCancelBookingService(
	bookingRepo out.BookingRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *CancelBookingService {
	return &CancelBookingService{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		log:         log,
	}
}

// Execute отменяет заказ, записывая причину и роль инициатора
func (s *CancelBookingService) Execute(ctx context.Context, input in.CancelBookingInput) (*in.CancelBookingOutput, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", domain.ErrBookingTerminal, booking.Status)
	}

	switch input.ActorRole {
	case lifecycle.RoleRider:
		if booking.OwnerID != input.ActorID {
			return nil, domain.ErrNotBookingOwner
		}
		if booking.Status != lifecycle.StatusPending {
			return nil, fmt.Errorf("%w: current status %s", domain.ErrRiderCancelNotPending, booking.Status)
		}
	case lifecycle.RoleOperator:
		if err := lifecycle.Validate(booking.Status, lifecycle.StatusCancelled, lifecycle.RoleOperator); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", lifecycle.ErrRoleNotAllowed, input.ActorRole)
	}

	err = s.bookingRepo.Cancel(ctx, out.CancelBookingParams{
		BookingID: booking.ID,
		Version:   booking.Version,
		Reason:    reason,
		ActorRole: input.ActorRole,
		DriverID:  booking.DriverID,
	})
	if err != nil {
		observability.ConflictsTotal.Inc()
		s.log.Warn(logger.Entry{
			Action:    "cancel_booking_rejected",
			Message:   err.Error(),
			BookingID: booking.ID,
		})
		return nil, err
	}

	observability.BookingsCancelledTotal.Inc()
	cancelledAt := time.Now().UTC()

	s.log.Info(logger.Entry{
		Action:    mq.KeyBookingCancelled,
		Message:   reason,
		BookingID: booking.ID,
		Additional: map[string]any{
			"cancelled_by": string(input.ActorRole),
			"actor_id":     input.ActorID,
		},
	})

	eventData := out.BookingEventData{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		OwnerID:       booking.OwnerID,
		DriverID:      booking.DriverID,
		Kind:          string(booking.Kind),
		Status:        string(lifecycle.StatusCancelled),
		AdditionalData: map[string]any{
			"reason":       reason,
			"cancelled_by": string(input.ActorRole),
		},
	}

	if err := s.publisher.PublishBookingEvent(ctx, mq.KeyBookingCancelled, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.CancelBookingOutput{
		BookingID:   booking.ID,
		Status:      string(lifecycle.StatusCancelled),
		CancelledBy: string(input.ActorRole),
		CancelledAt: cancelledAt.Format(time.RFC3339),
	}, nil
}
