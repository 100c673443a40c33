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

	"github.com/google/uuid"
)

// CreateBookingService реализует CreateBookingUseCase
type CreateBookingService struct {
	bookingRepo out.BookingRepository
	publisher   out.EventPublisher
	log         *logger.Logger
}

// NewCreateBookingService создает сервис создания заказа
func NewCreateBookingService(
	bookingRepo out.BookingRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *CreateBookingService {
	return &CreateBookingService{
		bookingRepo: bookingRepo,
		publisher:   publisher,
		log:         log,
	}
}

// Execute создает новый заказ в статусе PENDING
func (s *CreateBookingService) Execute(ctx context.Context, input in.CreateBookingInput) (*in.CreateBookingOutput, error) {
	kind, err := domain.ParseKind(input.Kind)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateCoordinates(input.PickupLat, input.PickupLng); err != nil {
		return nil, err
	}
	if err := domain.ValidateCoordinates(input.DestinationLat, input.DestinationLng); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:                 uuid.New().String(),
		BookingNumber:      generateBookingNumber(kind),
		Kind:               kind,
		Status:             lifecycle.StatusPending,
		OwnerID:            input.OwnerID,
		PickupAddress:      input.PickupAddress,
		PickupLat:          input.PickupLat,
		PickupLng:          input.PickupLng,
		DestinationAddress: input.DestinationAddress,
		DestinationLat:     input.DestinationLat,
		DestinationLng:     input.DestinationLng,
		RequestedAt:        now,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.log.Error(logger.Entry{
			Action:  "create_booking_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
			Additional: map[string]any{
				"owner_id": input.OwnerID,
				"kind":     string(kind),
			},
		})
		return nil, fmt.Errorf("create booking: %w", err)
	}

	observability.BookingsCreatedTotal.Inc()

	s.log.Info(logger.Entry{
		Action:    "booking_created",
		Message:   booking.BookingNumber,
		BookingID: booking.ID,
		Additional: map[string]any{
			"owner_id": input.OwnerID,
			"kind":     string(kind),
		},
	})

	eventData := out.BookingEventData{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		OwnerID:       booking.OwnerID,
		Kind:          string(booking.Kind),
		Status:        string(booking.Status),
		AdditionalData: map[string]any{
			"pickup_address":      booking.PickupAddress,
			"destination_address": booking.DestinationAddress,
		},
	}

	if err := s.publisher.PublishBookingEvent(ctx, mq.KeyBookingCreated, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		// Заказ уже создан, ошибку публикации не возвращаем
	}

	return &in.CreateBookingOutput{
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		Kind:          string(booking.Kind),
		Status:        string(booking.Status),
		RequestedAt:   booking.RequestedAt.Format(time.RFC3339),
	}, nil
}

// generateBookingNumber генерирует уникальный номер заказа
func generateBookingNumber(kind domain.Kind) string {
	prefix := "TRIP"
	if kind == domain.KindDelivery {
		prefix = "PKG"
	}
	now := time.Now().UTC()
	return fmt.Sprintf("%s-%s-%d", prefix, now.Format("20060102"), now.UnixNano()%1000000)
}
