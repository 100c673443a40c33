package domain

import (
	"fmt"
	"time"

	"towntriphub/internal/shared/lifecycle"
)

// Review — оценка завершенного заказа его владельцем.
type Review struct {
	ID         string         `json:"id" db:"id"`
	BookingID  string         `json:"booking_id" db:"booking_id"`
	ReviewerID string         `json:"reviewer_id" db:"reviewer_id"`
	RevieweeID string         `json:"reviewee_id" db:"reviewee_id"`
	Rating     int            `json:"rating" db:"rating"`
	Comment    string         `json:"comment,omitempty" db:"comment"`
	Feedback   map[string]int `json:"feedback,omitempty" db:"feedback"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// BookingView — снимок заказа, достаточный для проверки права на отзыв.
type BookingView struct {
	ID           string
	OwnerID      string
	DriverUserID *string
	Status       lifecycle.Status
}

// ValidateRating проверяет оценку по шкале 1..5.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidRating)
	}
	return nil
}

// CanReview — чистая проверка права на отзыв: заказ завершен,
// автор — владелец заказа. Уникальность пары (booking, reviewer)
// гарантирует хранилище при записи.
func CanReview(booking *BookingView, reviewerID string) error {
	if booking.Status != lifecycle.StatusCompleted {
		return ErrBookingNotCompleted
	}
	if booking.OwnerID != reviewerID {
		return ErrNotBookingOwner
	}
	return nil
}
