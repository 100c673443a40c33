package in

import "context"

// CancelAssignmentInput — отмена заказа назначенным водителем.
type CancelAssignmentInput struct {
	UserID    string
	BookingID string
	Reason    string
}

// CancelAssignmentOutput — результат отмены.
type CancelAssignmentOutput struct {
	BookingID   string `json:"booking_id"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at"`
}

// CancelAssignmentUseCase — порт отмены со стороны водителя.
type CancelAssignmentUseCase interface {
	Execute(ctx context.Context, input CancelAssignmentInput) (*CancelAssignmentOutput, error)
}
