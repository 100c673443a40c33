package usecase

import (
	"context"
	"errors"
	"testing"

	"towntriphub/internal/review/application/ports/in"
	"towntriphub/internal/review/domain"
	"towntriphub/internal/shared/lifecycle"
	"towntriphub/internal/shared/logger"
)

// fakeReviewRepo — in-memory хранилище отзывов с уникальностью
// (booking_id, reviewer_id), как у настоящего индекса.
type fakeReviewRepo struct {
	reviews   []*domain.Review
	createErr error
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID && existing.ReviewerID == review.ReviewerID {
			return domain.ErrDuplicateReview
		}
	}
	r.reviews = append(r.reviews, review)
	return nil
}

func (r *fakeReviewRepo) ExistsFor(ctx context.Context, bookingID, reviewerID string) (bool, error) {
	for _, existing := range r.reviews {
		if existing.BookingID == bookingID && existing.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Review, error) {
	var result []*domain.Review
	for _, review := range r.reviews {
		if review.RevieweeID == userID {
			result = append(result, review)
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*domain.Review, error) {
	var result []*domain.Review
	for _, review := range r.reviews {
		if review.ReviewerID == reviewerID {
			result = append(result, review)
		}
	}
	return result, nil
}

// fakeBookingReader отдает заранее подготовленные заказы.
type fakeBookingReader struct {
	bookings map[string]*domain.BookingView
}

func (r *fakeBookingReader) FindByID(ctx context.Context, bookingID string) (*domain.BookingView, error) {
	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

func completedBooking() *domain.BookingView {
	driverUser := "driver-user-1"
	return &domain.BookingView{
		ID:           "b-1",
		OwnerID:      "rider-1",
		DriverUserID: &driverUser,
		Status:       lifecycle.StatusCompleted,
	}
}

func newSubmitService(reviewRepo *fakeReviewRepo, bookings ...*domain.BookingView) *SubmitReviewService {
	reader := &fakeBookingReader{bookings: make(map[string]*domain.BookingView)}
	for _, b := range bookings {
		reader.bookings[b.ID] = b
	}
	return NewSubmitReviewService(reviewRepo, reader, logger.NewLogger("test"))
}

func validInput() in.SubmitReviewInput {
	return in.SubmitReviewInput{
		ReviewerID: "rider-1",
		BookingID:  "b-1",
		Rating:     5,
		Comment:    "  smooth trip  ",
		Feedback:   map[string]int{"driving": 5, "communication": 4},
	}
}

func TestSubmitReviewSuccess(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	svc := newSubmitService(reviewRepo, completedBooking())

	output, err := svc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if output.RevieweeID != "driver-user-1" {
		t.Errorf("reviewee = %s, want driver-user-1", output.RevieweeID)
	}
	if output.Rating != 5 {
		t.Errorf("rating = %d, want 5", output.Rating)
	}

	if len(reviewRepo.reviews) != 1 {
		t.Fatalf("stored reviews = %d, want 1", len(reviewRepo.reviews))
	}
	stored := reviewRepo.reviews[0]
	if stored.Comment != "smooth trip" {
		t.Errorf("comment = %q, want trimmed %q", stored.Comment, "smooth trip")
	}
	if stored.ID == "" {
		t.Error("review must get an id")
	}
}

func TestSubmitReviewDenied(t *testing.T) {
	inProgress := completedBooking()
	inProgress.Status = lifecycle.StatusInTransit

	cancelled := completedBooking()
	cancelled.Status = lifecycle.StatusCancelled

	noDriver := completedBooking()
	noDriver.DriverUserID = nil

	tests := []struct {
		name    string
		booking *domain.BookingView
		mutate  func(*in.SubmitReviewInput)
		wantErr error
	}{
		{
			name:    "booking still in progress",
			booking: inProgress,
			mutate:  func(*in.SubmitReviewInput) {},
			wantErr: domain.ErrBookingNotCompleted,
		},
		{
			name:    "cancelled booking",
			booking: cancelled,
			mutate:  func(*in.SubmitReviewInput) {},
			wantErr: domain.ErrBookingNotCompleted,
		},
		{
			name:    "reviewer is not the owner",
			booking: completedBooking(),
			mutate:  func(input *in.SubmitReviewInput) { input.ReviewerID = "rider-2" },
			wantErr: domain.ErrNotBookingOwner,
		},
		{
			name:    "completed booking without a driver record",
			booking: noDriver,
			mutate:  func(*in.SubmitReviewInput) {},
			wantErr: domain.ErrNoReviewee,
		},
		{
			name:    "rating below range",
			booking: completedBooking(),
			mutate:  func(input *in.SubmitReviewInput) { input.Rating = 0 },
			wantErr: domain.ErrInvalidRating,
		},
		{
			name:    "rating above range",
			booking: completedBooking(),
			mutate:  func(input *in.SubmitReviewInput) { input.Rating = 6 },
			wantErr: domain.ErrInvalidRating,
		},
		{
			name:    "unknown booking",
			booking: completedBooking(),
			mutate:  func(input *in.SubmitReviewInput) { input.BookingID = "b-404" },
			wantErr: domain.ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewRepo := &fakeReviewRepo{}
			svc := newSubmitService(reviewRepo, tt.booking)

			input := validInput()
			tt.mutate(&input)

			_, err := svc.Execute(context.Background(), input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
			if len(reviewRepo.reviews) != 0 {
				t.Error("denied review must not be stored")
			}
		})
	}
}

func TestSubmitReviewDuplicate(t *testing.T) {
	reviewRepo := &fakeReviewRepo{}
	svc := newSubmitService(reviewRepo, completedBooking())

	if _, err := svc.Execute(context.Background(), validInput()); err != nil {
		t.Fatalf("first submit error = %v", err)
	}

	// Повторная подача отклоняется проверкой ExistsFor до записи
	reviewRepo.createErr = errors.New("insert must not be reached")
	_, err := svc.Execute(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Errorf("second submit error = %v, want %v", err, domain.ErrDuplicateReview)
	}
	if len(reviewRepo.reviews) != 1 {
		t.Errorf("stored reviews = %d, want 1", len(reviewRepo.reviews))
	}
}

func TestSubmitReviewRaceFallsToUniqueIndex(t *testing.T) {
	// Конкурентный submit проскочил ExistsFor; уникальный индекс решает гонку
	reviewRepo := &fakeReviewRepo{createErr: domain.ErrDuplicateReview}
	svc := newSubmitService(reviewRepo, completedBooking())

	_, err := svc.Execute(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateReview) {
		t.Errorf("Execute() error = %v, want %v", err, domain.ErrDuplicateReview)
	}
}

func TestListReviews(t *testing.T) {
	reviewRepo := &fakeReviewRepo{reviews: []*domain.Review{
		{ID: "r-1", BookingID: "b-1", ReviewerID: "rider-1", RevieweeID: "driver-user-1", Rating: 5},
		{ID: "r-2", BookingID: "b-2", ReviewerID: "rider-2", RevieweeID: "driver-user-1", Rating: 3},
		{ID: "r-3", BookingID: "b-3", ReviewerID: "rider-1", RevieweeID: "driver-user-2", Rating: 4},
	}}
	svc := NewListReviewsService(reviewRepo)

	forDriver, err := svc.ForUser(context.Background(), in.ListReviewsForUserInput{UserID: "driver-user-1"})
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}
	if len(forDriver) != 2 {
		t.Errorf("reviews for driver-user-1 = %d, want 2", len(forDriver))
	}

	given, err := svc.Given(context.Background(), in.ListReviewsGivenInput{ReviewerID: "rider-1"})
	if err != nil {
		t.Fatalf("Given() error = %v", err)
	}
	if len(given) != 2 {
		t.Errorf("reviews by rider-1 = %d, want 2", len(given))
	}
}
