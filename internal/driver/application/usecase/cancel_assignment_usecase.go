package usecase

import (
	"context"
	"strings"
	"time"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
	"towntriphub/internal/shared/observability"
)

// CancelAssignmentService реализует CancelAssignmentUseCase.
// Водитель может отменить свой заказ из любого нетерминального статуса,
// но только с непустой причиной.
type CancelAssignmentService struct {
	driverRepo     out.DriverRepository
	assignmentRepo out.AssignmentRepository
	publisher      out.EventPublisher
	log            *logger.Logger
}

// NewCancelAssignmentService создает сервис отмены со стороны водителя
func NewCancelAssignmentService(
	driverRepo out.DriverRepository,
	assignmentRepo out.AssignmentRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *CancelAssignmentService {
	return &CancelAssignmentService{
		driverRepo:     driverRepo,
		assignmentRepo: assignmentRepo,
		publisher:      publisher,
		log:            log,
	}
}

// Execute отменяет заказ назначенным водителем и освобождает его
// одной транзакцией
func (s *CancelAssignmentService) Execute(ctx context.Context, input in.CancelAssignmentInput) (*in.CancelAssignmentOutput, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	driver, err := s.driverRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if assignment.DriverID != driver.ID {
		return nil, domain.ErrAssignmentNotOwned
	}

	if err := lifecycle.Validate(assignment.Status, lifecycle.StatusCancelled, lifecycle.RoleDriver); err != nil {
		return nil, err
	}

	err = s.assignmentRepo.CancelAndRelease(ctx, out.ReleaseParams{
		BookingID: assignment.BookingID,
		Version:   assignment.Version,
		DriverID:  driver.ID,
		Reason:    reason,
	})
	if err != nil {
		observability.ConflictsTotal.Inc()
		return nil, err
	}

	observability.BookingsCancelledTotal.Inc()
	cancelledAt := time.Now().UTC()

	s.log.Info(logger.Entry{
		Action:    "assignment_cancelled",
		Message:   reason,
		BookingID: assignment.BookingID,
		Additional: map[string]any{
			"driver_id": driver.ID,
		},
	})

	eventData := out.BookingEventData{
		BookingID: assignment.BookingID,
		DriverID:  driver.ID,
		Status:    string(lifecycle.StatusCancelled),
		AdditionalData: map[string]any{
			"reason":       reason,
			"cancelled_by": string(lifecycle.RoleDriver),
		},
	}
	if err := s.publisher.PublishBookingEvent(ctx, mq.KeyBookingCancelled, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: assignment.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.CancelAssignmentOutput{
		BookingID:   assignment.BookingID,
		Status:      string(lifecycle.StatusCancelled),
		CancelledAt: cancelledAt.Format(time.RFC3339),
	}, nil
}
