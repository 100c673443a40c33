package out

import (
	"context"

	"towntriphub/internal/review/domain"
)

// ReviewRepository — хранилище отзывов.
// Create полагается на уникальный индекс (booking_id, reviewer_id):
// повторная запись возвращает domain.ErrDuplicateReview.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ExistsFor(ctx context.Context, bookingID, reviewerID string) (bool, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*domain.Review, error)
}

// BookingReader — чтение заказа для проверки права на отзыв.
type BookingReader interface {
	FindByID(ctx context.Context, bookingID string) (*domain.BookingView, error)
}
