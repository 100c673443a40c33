package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"towntriphub/internal/review/domain"
	"towntriphub/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewPgRepository — PostgreSQL репозиторий отзывов.
type ReviewPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewReviewPgRepository создает новый экземпляр репозитория
func NewReviewPgRepository(pool *pgxpool.Pool, log *logger.Logger) *ReviewPgRepository {
	return &ReviewPgRepository{
		pool: pool,
		log:  log,
	}
}

// Create сохраняет отзыв. Уникальный индекс (booking_id, reviewer_id)
// превращает повторную запись в ErrDuplicateReview.
func (r *ReviewPgRepository) Create(ctx context.Context, review *domain.Review) error {
	feedbackJSON, err := json.Marshal(review.Feedback)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	if review.Feedback == nil {
		feedbackJSON = []byte("{}")
	}

	query := `
		INSERT INTO reviews (id, booking_id, reviewer_id, reviewee_id, rating, feedback, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		review.ID,
		review.BookingID,
		review.ReviewerID,
		review.RevieweeID,
		review.Rating,
		feedbackJSON,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateReview
		}
		r.log.Error(logger.Entry{
			Action:    "db_create_review_failed",
			Message:   err.Error(),
			BookingID: review.BookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ExistsFor сообщает, оставлял ли автор отзыв на заказ
func (r *ReviewPgRepository) ExistsFor(ctx context.Context, bookingID, reviewerID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1 AND reviewer_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookingID, reviewerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("query review existence: %w", err)
	}

	return exists, nil
}

// ListForUser возвращает отзывы, полученные пользователем
func (r *ReviewPgRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Review, error) {
	query := `
		SELECT id, booking_id, reviewer_id, reviewee_id, rating, feedback, comment, created_at
		FROM reviews
		WHERE reviewee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryReviews(ctx, query, userID, limit, offset)
}

// ListByReviewer возвращает отзывы, написанные пользователем
func (r *ReviewPgRepository) ListByReviewer(ctx context.Context, reviewerID string, limit, offset int) ([]*domain.Review, error) {
	query := `
		SELECT id, booking_id, reviewer_id, reviewee_id, rating, feedback, comment, created_at
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryReviews(ctx, query, reviewerID, limit, offset)
}

func (r *ReviewPgRepository) queryReviews(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		review := &domain.Review{}
		var feedbackJSON []byte

		err := rows.Scan(
			&review.ID,
			&review.BookingID,
			&review.ReviewerID,
			&review.RevieweeID,
			&review.Rating,
			&feedbackJSON,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		if len(feedbackJSON) > 0 {
			if err := json.Unmarshal(feedbackJSON, &review.Feedback); err != nil {
				return nil, fmt.Errorf("unmarshal feedback: %w", err)
			}
		}

		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// BookingPgReader читает снимок заказа для проверки права на отзыв.
type BookingPgReader struct {
	pool *pgxpool.Pool
}

func NewBookingPgReader(pool *pgxpool.Pool) *BookingPgReader {
	return &BookingPgReader{pool: pool}
}

// FindByID возвращает заказ вместе с user_id назначенного водителя
func (r *BookingPgReader) FindByID(ctx context.Context, bookingID string) (*domain.BookingView, error) {
	query := `
		SELECT b.id, b.owner_id, d.user_id, b.status
		FROM bookings b
		LEFT JOIN drivers d ON d.id = b.driver_id
		WHERE b.id = $1
	`

	view := &domain.BookingView{}
	err := r.pool.QueryRow(ctx, query, bookingID).Scan(
		&view.ID,
		&view.OwnerID,
		&view.DriverUserID,
		&view.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("query booking view: %w", err)
	}

	return view, nil
}
