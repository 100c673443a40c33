package repo

import (
	"context"
	"errors"
	"fmt"

	"towntriphub/internal/booking/application/ports/out"
	"towntriphub/internal/booking/domain"
	"towntriphub/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BookingPgRepository — PostgreSQL репозиторий заказов.
type BookingPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewBookingPgRepository создает новый экземпляр репозитория
func NewBookingPgRepository(pool *pgxpool.Pool, log *logger.Logger) *BookingPgRepository {
	return &BookingPgRepository{
		pool: pool,
		log:  log,
	}
}

const bookingColumns = `
	id, booking_number, kind, status, owner_id, driver_id,
	price_amount::text, price_currency,
	pickup_address, pickup_lat, pickup_lng,
	destination_address, destination_lat, destination_lng,
	cancel_reason, cancelled_by,
	requested_at, assigned_at, en_route_at, picked_up_at,
	in_transit_at, completed_at, cancelled_at,
	version, created_at, updated_at
`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var priceAmount *string

	err := row.Scan(
		&booking.ID,
		&booking.BookingNumber,
		&booking.Kind,
		&booking.Status,
		&booking.OwnerID,
		&booking.DriverID,
		&priceAmount,
		&booking.PriceCurrency,
		&booking.PickupAddress,
		&booking.PickupLat,
		&booking.PickupLng,
		&booking.DestinationAddress,
		&booking.DestinationLat,
		&booking.DestinationLng,
		&booking.CancelReason,
		&booking.CancelledBy,
		&booking.RequestedAt,
		&booking.AssignedAt,
		&booking.EnRouteAt,
		&booking.PickedUpAt,
		&booking.InTransitAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if priceAmount != nil {
		amount, err := decimal.NewFromString(*priceAmount)
		if err != nil {
			return nil, fmt.Errorf("parse price amount: %w", err)
		}
		booking.PriceAmount = &amount
	}

	return booking, nil
}

// Create создает новый заказ
func (r *BookingPgRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			id, booking_number, kind, status, owner_id,
			pickup_address, pickup_lat, pickup_lng,
			destination_address, destination_lat, destination_lng,
			requested_at, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.BookingNumber,
		booking.Kind,
		booking.Status,
		booking.OwnerID,
		booking.PickupAddress,
		booking.PickupLat,
		booking.PickupLng,
		booking.DestinationAddress,
		booking.DestinationLat,
		booking.DestinationLng,
		booking.RequestedAt,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error(logger.Entry{
			Action:    "db_create_booking_failed",
			Message:   err.Error(),
			BookingID: booking.ID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// FindByID возвращает заказ по ID
func (r *BookingPgRepository) FindByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		r.log.Error(logger.Entry{
			Action:    "db_find_booking_failed",
			Message:   err.Error(),
			BookingID: bookingID,
			Error:     &logger.ErrObj{Msg: err.Error()},
		})
		return nil, fmt.Errorf("query booking by id: %w", err)
	}

	return booking, nil
}

// AssignDriver привязывает водителя к заказу одной транзакцией.
// Обе стороны пишутся условно: заказ должен быть PENDING нужной версии,
// водитель — без активного заказа нужной версии. Ноль строк на любой
// стороне откатывает транзакцию целиком.
func (r *BookingPgRepository) AssignDriver(ctx context.Context, params out.AssignDriverParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	bookingQuery := `
		UPDATE bookings
		SET driver_id = $1, price_amount = $2, price_currency = $3,
		    status = 'DRIVER_ASSIGNED', assigned_at = NOW(),
		    version = version + 1, updated_at = NOW()
		WHERE id = $4 AND status = 'PENDING' AND version = $5
	`

	result, err := tx.Exec(ctx, bookingQuery,
		params.DriverID,
		params.Amount.StringFixed(2),
		params.Currency,
		params.BookingID,
		params.BookingVersion,
	)
	if err != nil {
		return fmt.Errorf("update booking for assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrBookingNotPending
	}

	driverQuery := `
		UPDATE drivers
		SET active_booking_id = $1, availability_status = 'BUSY',
		    version = version + 1, updated_at = NOW()
		WHERE id = $2 AND approval_status = 'APPROVED'
		  AND availability_status <> 'OFFLINE'
		  AND active_booking_id IS NULL
		  AND version = $3
	`

	result, err = tx.Exec(ctx, driverQuery,
		params.BookingID,
		params.DriverID,
		params.DriverVersion,
	)
	if err != nil {
		return fmt.Errorf("update driver for assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrDriverBusy
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit assignment: %w", err)
	}

	return nil
}

// Cancel записывает терминальный статус CANCELLED и, если водитель был
// назначен, освобождает его в той же транзакции.
func (r *BookingPgRepository) Cancel(ctx context.Context, params out.CancelBookingParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	bookingQuery := `
		UPDATE bookings
		SET status = 'CANCELLED', cancel_reason = $1, cancelled_by = $2,
		    cancelled_at = NOW(), version = version + 1, updated_at = NOW()
		WHERE id = $3
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		  AND version = $4
	`

	result, err := tx.Exec(ctx, bookingQuery,
		params.Reason,
		string(params.ActorRole),
		params.BookingID,
		params.Version,
	)
	if err != nil {
		return fmt.Errorf("update booking for cancellation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	if params.DriverID != nil {
		driverQuery := `
			UPDATE drivers
			SET active_booking_id = NULL, availability_status = 'AVAILABLE',
			    version = version + 1, updated_at = NOW()
			WHERE id = $1 AND active_booking_id = $2
		`

		result, err = tx.Exec(ctx, driverQuery, *params.DriverID, params.BookingID)
		if err != nil {
			return fmt.Errorf("release driver on cancellation: %w", err)
		}
		if result.RowsAffected() == 0 {
			return domain.ErrVersionConflict
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}

	r.log.Info(logger.Entry{
		Action:    "db_booking_cancelled",
		Message:   "booking cancelled by " + string(params.ActorRole),
		BookingID: params.BookingID,
	})

	return nil
}
