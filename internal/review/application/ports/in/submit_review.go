package in

import "context"

// SubmitReviewInput — отзыв райдера на завершенный заказ.
type SubmitReviewInput struct {
	ReviewerID string
	BookingID  string
	Rating     int
	Comment    string
	Feedback   map[string]int
}

// SubmitReviewOutput — результат сохранения отзыва.
type SubmitReviewOutput struct {
	ReviewID   string `json:"review_id"`
	BookingID  string `json:"booking_id"`
	RevieweeID string `json:"reviewee_id"`
	Rating     int    `json:"rating"`
	CreatedAt  string `json:"created_at"`
}

// SubmitReviewUseCase — порт подачи отзыва.
type SubmitReviewUseCase interface {
	Execute(ctx context.Context, input SubmitReviewInput) (*SubmitReviewOutput, error)
}
