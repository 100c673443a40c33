package usecase

import (
	"context"
	"time"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
	"towntriphub/internal/shared/observability"
)

// AdvanceAssignmentService реализует AdvanceAssignmentUseCase.
// Водитель двигает свой заказ только на один шаг вперед; какой шаг
// разрешен — решает таблица переходов, а не обработчик.
type AdvanceAssignmentService struct {
	driverRepo     out.DriverRepository
	assignmentRepo out.AssignmentRepository
	publisher      out.EventPublisher
	log            *logger.Logger
}

// NewAdvanceAssignmentService создает сервис прямых переходов
func NewAdvanceAssignmentService(
	driverRepo out.DriverRepository,
	assignmentRepo out.AssignmentRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *AdvanceAssignmentService {
	return &AdvanceAssignmentService{
		driverRepo:     driverRepo,
		assignmentRepo: assignmentRepo,
		publisher:      publisher,
		log:            log,
	}
}

// Execute валидирует и выполняет один прямой шаг жизненного цикла.
// Гонка с конкурентной отменой решается условной записью: проигравший
// получает конфликт, не тихую перезапись.
func (s *AdvanceAssignmentService) Execute(ctx context.Context, input in.AdvanceAssignmentInput) (*in.AdvanceAssignmentOutput, error) {
	requested, err := lifecycle.ParseStatus(input.RequestedStatus)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	// Переход доступен только водителю, привязанному к заказу
	if assignment.DriverID != driver.ID {
		return nil, domain.ErrAssignmentNotOwned
	}

	if err := lifecycle.Validate(assignment.Status, requested, lifecycle.RoleDriver); err != nil {
		s.log.Warn(logger.Entry{
			Action:    "advance_assignment_denied",
			Message:   err.Error(),
			BookingID: assignment.BookingID,
			Additional: map[string]any{
				"current":   string(assignment.Status),
				"requested": string(requested),
				"driver_id": driver.ID,
			},
		})
		return nil, err
	}

	if requested == lifecycle.StatusCompleted {
		// Терминальный шаг освобождает водителя в той же транзакции
		err = s.assignmentRepo.CompleteAndRelease(ctx, out.ReleaseParams{
			BookingID: assignment.BookingID,
			Version:   assignment.Version,
			DriverID:  driver.ID,
		})
	} else {
		err = s.assignmentRepo.Advance(ctx, out.AdvanceParams{
			BookingID: assignment.BookingID,
			Current:   assignment.Status,
			Next:      requested,
			Version:   assignment.Version,
		})
	}
	if err != nil {
		observability.ConflictsTotal.Inc()
		s.log.Warn(logger.Entry{
			Action:    "advance_assignment_write_rejected",
			Message:   err.Error(),
			BookingID: assignment.BookingID,
		})
		return nil, err
	}

	changedAt := time.Now().UTC()

	s.log.Info(logger.Entry{
		Action:    "assignment_advanced",
		Message:   string(assignment.Status) + " -> " + string(requested),
		BookingID: assignment.BookingID,
		Additional: map[string]any{
			"driver_id": driver.ID,
		},
	})

	routingKey := mq.KeyBookingStatusChanged
	if requested == lifecycle.StatusCompleted {
		observability.BookingsCompletedTotal.Inc()
		routingKey = mq.KeyBookingCompleted
	}

	eventData := out.BookingEventData{
		BookingID: assignment.BookingID,
		DriverID:  driver.ID,
		Status:    string(requested),
	}
	if err := s.publisher.PublishBookingEvent(ctx, routingKey, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:    "publish_booking_event_failed",
			Message:   err.Error(),
			BookingID: assignment.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.AdvanceAssignmentOutput{
		BookingID: assignment.BookingID,
		Status:    string(requested),
		ChangedAt: changedAt.Format(time.RFC3339),
	}, nil
}
