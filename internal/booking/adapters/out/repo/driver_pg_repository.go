package repo

import (
	"context"
	"errors"
	"fmt"

	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DriverPgRepository читает водителей для нужд диспетчера.
type DriverPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewDriverPgRepository(pool *pgxpool.Pool, log *logger.Logger) *DriverPgRepository {
	return &DriverPgRepository{
		pool: pool,
		log:  log,
	}
}

// FindByID возвращает водителя по ID
func (r *DriverPgRepository) FindByID(ctx context.Context, driverID string) (*domain.Driver, error) {
	query := `
		SELECT id, user_id, approval_status, availability_status,
		       active_booking_id, accepts_rides, accepts_deliveries, version
		FROM drivers
		WHERE id = $1
	`

	driver := &domain.Driver{}
	err := r.pool.QueryRow(ctx, query, driverID).Scan(
		&driver.ID,
		&driver.UserID,
		&driver.ApprovalStatus,
		&driver.AvailabilityStatus,
		&driver.ActiveBookingID,
		&driver.AcceptsRides,
		&driver.AcceptsDeliveries,
		&driver.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDriverNotFound
		}
		r.log.Error(logger.Entry{
			Action:  "db_find_driver_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query driver by id: %w", err)
	}

	return driver, nil
}
