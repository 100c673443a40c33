package in

import (
	"context"

	"towntriphub/internal/driver/domain"
)

// CurrentAssignmentInput — запрос активного заказа водителем.
type CurrentAssignmentInput struct {
	UserID string
}

// CurrentAssignmentUseCase — порт чтения активного заказа.
type CurrentAssignmentUseCase interface {
	Execute(ctx context.Context, input CurrentAssignmentInput) (*domain.Assignment, error)
}
