package repo

import (
	"context"
	"errors"
	"fmt"

	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DriverPgRepository — PostgreSQL репозиторий водителей.
type DriverPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewDriverPgRepository создает новый экземпляр репозитория
func NewDriverPgRepository(pool *pgxpool.Pool, log *logger.Logger) *DriverPgRepository {
	return &DriverPgRepository{
		pool: pool,
		log:  log,
	}
}

// FindByUserID возвращает водителя по user_id из JWT
func (r *DriverPgRepository) FindByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	query := `
		SELECT id, user_id, approval_status, availability_status,
		       active_booking_id, accepts_rides, accepts_deliveries,
		       version, created_at, updated_at
		FROM drivers
		WHERE user_id = $1
	`

	driver := &domain.Driver{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&driver.ID,
		&driver.UserID,
		&driver.ApprovalStatus,
		&driver.AvailabilityStatus,
		&driver.ActiveBookingID,
		&driver.AcceptsRides,
		&driver.AcceptsDeliveries,
		&driver.Version,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_find_driver_by_user_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query driver by user id: %w", err)
	}

	return driver, nil
}

// SetAvailability — условная запись доступности по версии
func (r *DriverPgRepository) SetAvailability(ctx context.Context, driverID string, status domain.AvailabilityStatus, version int) error {
	query := `
		UPDATE drivers
		SET availability_status = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
	`

	result, err := r.pool.Exec(ctx, query, status, driverID, version)
	if err != nil {
		return fmt.Errorf("update driver availability: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}
