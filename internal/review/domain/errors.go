package domain

import "errors"

var (
	// ErrBookingNotFound возвращается когда заказ не найден
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingNotCompleted возвращается при отзыве на незавершенный заказ
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrNotBookingOwner возвращается когда автор отзыва не владелец заказа
	ErrNotBookingOwner = errors.New("reviewer is not the booking owner")

	// ErrDuplicateReview возвращается при повторном отзыве на тот же заказ
	ErrDuplicateReview = errors.New("review already exists for this booking")

	// ErrInvalidRating возвращается для оценки вне шкалы 1..5
	ErrInvalidRating = errors.New("invalid rating")

	// ErrNoReviewee возвращается когда у заказа нет водителя для оценки
	ErrNoReviewee = errors.New("booking has no driver to review")
)
