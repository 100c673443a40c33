package usecase

import (
	"context"

	"towntriphub/internal/booking/application/ports/in"
	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

// GetBookingService реализует GetBookingUseCase
type GetBookingService struct {
	bookingRepo out.BookingRepository
	driverRepo  out.DriverRepository
	log         *logger.Logger
}

// NewGetBookingService создает сервис чтения заказа
func NewGetBookingService(
	bookingRepo out.BookingRepository,
	driverRepo out.DriverRepository,
	log *logger.Logger,
) *GetBookingService {
	return &GetBookingService{
		bookingRepo: bookingRepo,
		driverRepo:  driverRepo,
		log:         log,
	}
}

// Execute возвращает заказ владельцу, назначенному водителю или оператору
func (s *GetBookingService) Execute(ctx context.Context, input in.GetBookingInput) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	switch input.ActorRole {
	case lifecycle.RoleOperator:
		return booking, nil
	case lifecycle.RoleRider:
		if booking.OwnerID != input.ActorID {
			return nil, domain.ErrNotBookingOwner
		}
		return booking, nil
	case lifecycle.RoleDriver:
		if booking.DriverID == nil {
			return nil, domain.ErrBookingNotFound
		}
		driver, err := s.driverRepo.FindByID(ctx, *booking.DriverID)
		if err != nil {
			return nil, domain.ErrBookingNotFound
		}
		if driver.UserID != input.ActorID {
			return nil, domain.ErrBookingNotFound
		}
		return booking, nil
	default:
		return nil, lifecycle.ErrUnknownRole
	}
}
