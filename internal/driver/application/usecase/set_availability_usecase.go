package usecase

import (
	"context"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/mq"
)

// SetAvailabilityService реализует SetAvailabilityUseCase — трекер доступности.
type SetAvailabilityService struct {
	driverRepo out.DriverRepository
	publisher  out.EventPublisher
	log        *logger.Logger
}

// NewSetAvailabilityService создает сервис смены доступности
func NewSetAvailabilityService(
	driverRepo out.DriverRepository,
	publisher out.EventPublisher,
	log *logger.Logger,
) *SetAvailabilityService {
	return &SetAvailabilityService{
		driverRepo: driverRepo,
		publisher:  publisher,
		log:        log,
	}
}

// Execute меняет доступность водителя. Уход в OFFLINE с активным
// заказом запрещен.
func (s *SetAvailabilityService) Execute(ctx context.Context, input in.SetAvailabilityInput) (*in.SetAvailabilityOutput, error) {
	status, err := domain.ParseAvailabilityStatus(input.AvailabilityStatus)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := driver.CanSetAvailability(status); err != nil {
		s.log.Warn(logger.Entry{
			Action:  "set_availability_denied",
			Message: err.Error(),
			Additional: map[string]any{
				"driver_id": driver.ID,
				"requested": string(status),
				"current":   string(driver.AvailabilityStatus),
			},
		})
		return nil, err
	}

	if err := s.driverRepo.SetAvailability(ctx, driver.ID, status, driver.Version); err != nil {
		return nil, err
	}

	s.log.Info(logger.Entry{
		Action:  "driver_availability_changed",
		Message: string(driver.AvailabilityStatus) + " -> " + string(status),
		Additional: map[string]any{
			"driver_id": driver.ID,
		},
	})

	eventData := out.DriverEventData{
		DriverID:           driver.ID,
		AvailabilityStatus: string(status),
	}
	if err := s.publisher.PublishDriverEvent(ctx, mq.KeyDriverAvailabilityChanged, eventData); err != nil {
		s.log.Error(logger.Entry{
			Action:  "publish_driver_event_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	return &in.SetAvailabilityOutput{
		DriverID:           driver.ID,
		AvailabilityStatus: string(status),
	}, nil
}
