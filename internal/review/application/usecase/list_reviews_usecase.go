package usecase

import (
	"context"

	"towntriphub/internal/review/application/ports/in"
	"towntriphub/internal/review/application/ports/out"
	"towntriphub/internal/review/domain"
)

const defaultListLimit = 50

// ListReviewsService реализует ListReviewsUseCase
type ListReviewsService struct {
	reviewRepo out.ReviewRepository
}

func NewListReviewsService(reviewRepo out.ReviewRepository) *ListReviewsService {
	return &ListReviewsService{reviewRepo: reviewRepo}
}

// ForUser возвращает отзывы, полученные пользователем
func (s *ListReviewsService) ForUser(ctx context.Context, input in.ListReviewsForUserInput) ([]*domain.Review, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.reviewRepo.ListForUser(ctx, input.UserID, limit, input.Offset)
}

// Given возвращает отзывы, написанные пользователем
func (s *ListReviewsService) Given(ctx context.Context, input in.ListReviewsGivenInput) ([]*domain.Review, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.reviewRepo.ListByReviewer(ctx, input.ReviewerID, limit, input.Offset)
}
