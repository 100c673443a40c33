package usecase

import (
	"context"

	"towntriphub/internal/driver/application/ports/in"
	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/driver/domain"
)

// CurrentAssignmentService реализует CurrentAssignmentUseCase
type CurrentAssignmentService struct {
	driverRepo     out.DriverRepository
	assignmentRepo out.AssignmentRepository
}

func NewCurrentAssignmentService(
	driverRepo out.DriverRepository,
	assignmentRepo out.AssignmentRepository,
) *CurrentAssignmentService {
	return &CurrentAssignmentService{
		driverRepo:     driverRepo,
		assignmentRepo: assignmentRepo,
	}
}

// Execute возвращает активный заказ водителя
func (s *CurrentAssignmentService) Execute(ctx context.Context, input in.CurrentAssignmentInput) (*domain.Assignment, error) {
	driver, err := s.driverRepo.FindByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if driver.ActiveBookingID == nil {
		return nil, domain.ErrNoActiveAssignment
	}

	return s.assignmentRepo.FindActiveByDriver(ctx, driver.ID)
}
