package in

import (
	"context"

	"towntriphub/internal/review/domain"
)

// ListReviewsForUserInput — отзывы, полученные пользователем.
type ListReviewsForUserInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListReviewsGivenInput — отзывы, написанные пользователем.
type ListReviewsGivenInput struct {
	ReviewerID string
	Limit      int
	Offset     int
}

// ListReviewsUseCase — порт чтения отзывов.
type ListReviewsUseCase interface {
	ForUser(ctx context.Context, input ListReviewsForUserInput) ([]*domain.Review, error)
	Given(ctx context.Context, input ListReviewsGivenInput) ([]*domain.Review, error)
}
