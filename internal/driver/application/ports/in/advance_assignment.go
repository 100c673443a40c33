package in

import "context"

// AdvanceAssignmentInput — запрос водителя на следующий шаг жизненного цикла.
type AdvanceAssignmentInput struct {
	UserID          string
	BookingID       string
	RequestedStatus string
}

// AdvanceAssignmentOutput — результат перехода.
type AdvanceAssignmentOutput struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	ChangedAt string `json:"changed_at"`
}

// AdvanceAssignmentUseCase — порт прямых переходов назначенного водителя.
type AdvanceAssignmentUseCase interface {
	Execute(ctx context.Context, input AdvanceAssignmentInput) (*AdvanceAssignmentOutput, error)
}
