package usecase

import (
	"context"
	"strings"
	"time"

	"towntriphub/internal/review/application/ports/in"
	"towntriphub/internal/review/application/ports/out"
	"towntriphub/internal/review/domain"
	"towntriphub/internal/shared/logger"
	"towntriphub/internal/shared/observability"

	"github.com/google/uuid"
)

// SubmitReviewService реализует SubmitReviewUseCase.
// Право на отзыв проверяется дважды: здесь перед записью и уникальным
// индексом в хранилище — два конкурентных submit не проходят оба.
type SubmitReviewService struct {
	reviewRepo    out.ReviewRepository
	bookingReader out.BookingReader
	log           *logger.Logger
}

// NewSubmitReviewService создает сервис подачи отзывов
func NewSubmitReviewService(
	reviewRepo out.ReviewRepository,
	bookingReader out.BookingReader,
	log *logger.Logger,
) *SubmitReviewService {
	return &SubmitReviewService{
		reviewRepo:    reviewRepo,
		bookingReader: bookingReader,
		log:           log,
	}
}

// Execute проверяет право на отзыв и сохраняет его
func (s *SubmitReviewService) Execute(ctx context.Context, input in.SubmitReviewInput) (*in.SubmitReviewOutput, error) {
	if err := domain.ValidateRating(input.Rating); err != nil {
		return nil, err
	}

	booking, err := s.bookingReader.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReview(booking, input.ReviewerID); err != nil {
		s.log.Warn(logger.Entry{
			Action:    "review_denied",
			Message:   err.Error(),
			BookingID: booking.ID,
			Additional: map[string]any{
				"reviewer_id": input.ReviewerID,
			},
		})
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsFor(ctx, booking.ID, input.ReviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateReview
	}

	if booking.DriverUserID == nil {
		return nil, domain.ErrNoReviewee
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		BookingID:  booking.ID,
		ReviewerID: input.ReviewerID,
		RevieweeID: *booking.DriverUserID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		Feedback:   input.Feedback,
		CreatedAt:  time.Now().UTC(),
	}

	// Гонку двух submit решает уникальный индекс, не эта проверка
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.ReviewsSubmittedTotal.Inc()

	s.log.Info(logger.Entry{
		Action:    "review_submitted",
		Message:   "review stored",
		BookingID: booking.ID,
		Additional: map[string]any{
			"review_id":   review.ID,
			"reviewer_id": review.ReviewerID,
			"rating":      review.Rating,
		},
	})

	return &in.SubmitReviewOutput{
		ReviewID:   review.ID,
		BookingID:  review.BookingID,
		RevieweeID: review.RevieweeID,
		Rating:     review.Rating,
		CreatedAt:  review.CreatedAt.Format(time.RFC3339),
	}, nil
}
