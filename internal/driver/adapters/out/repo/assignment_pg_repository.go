package repo

import (
	"context"
	"errors"
	"fmt"

	"towntriphub/internal/driver/application/ports/out"
	"towntriphub/internal/driver/domain"
	"towntriphub/internal/shared/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentPgRepository — заказы назначенного водителя в PostgreSQL.
type AssignmentPgRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewAssignmentPgRepository создает новый экземпляр репозитория
func NewAssignmentPgRepository(pool *pgxpool.Pool, log *logger.Logger) *AssignmentPgRepository {
	return &AssignmentPgRepository{
		pool: pool,
		log:  log,
	}
}

const assignmentColumns = `
	id, booking_number, kind, status, owner_id, driver_id,
	price_amount::text, price_currency, pickup_address, destination_address, version
`

func scanAssignment(row pgx.Row) (*domain.Assignment, error) {
	assignment := &domain.Assignment{}
	err := row.Scan(
		&assignment.BookingID,
		&assignment.BookingNumber,
		&assignment.Kind,
		&assignment.Status,
		&assignment.OwnerID,
		&assignment.DriverID,
		&assignment.PriceAmount,
		&assignment.PriceCurrency,
		&assignment.PickupAddress,
		&assignment.DestinationAddress,
		&assignment.Version,
	)
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// FindByID возвращает заказ по ID; заказ без водителя не виден driver context
func (r *AssignmentPgRepository) FindByID(ctx context.Context, bookingID string) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM bookings WHERE id = $1 AND driver_id IS NOT NULL`

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("query assignment by id: %w", err)
	}

	return assignment, nil
}

// FindActiveByDriver возвращает нетерминальный заказ водителя
func (r *AssignmentPgRepository) FindActiveByDriver(ctx context.Context, driverID string) (*domain.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM bookings
		WHERE driver_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
	`

	assignment, err := scanAssignment(r.pool.QueryRow(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActiveAssignment
		}
		return nil, fmt.Errorf("query active assignment: %w", err)
	}

	return assignment, nil
}

// timestampColumn — колонка времени перехода для каждого статуса.
var timestampColumn = map[string]string{
	"DRIVER_EN_ROUTE": "en_route_at",
	"PICKED_UP":       "picked_up_at",
	"IN_TRANSIT":      "in_transit_at",
}

// Advance делает один прямой шаг; запись условна по статусу и версии
func (r *AssignmentPgRepository) Advance(ctx context.Context, params out.AdvanceParams) error {
	column, ok := timestampColumn[string(params.Next)]
	if !ok {
		return fmt.Errorf("no timestamp column for status %s", params.Next)
	}

	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1, %s = NOW(), version = version + 1, updated_at = NOW()
		WHERE id = $2 AND status = $3 AND version = $4
	`, column)

	result, err := r.pool.Exec(ctx, query, params.Next, params.BookingID, params.Current, params.Version)
	if err != nil {
		return fmt.Errorf("advance booking status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

// CompleteAndRelease пишет COMPLETED и освобождает водителя одной транзакцией
func (r *AssignmentPgRepository) CompleteAndRelease(ctx context.Context, params out.ReleaseParams) error {
	bookingQuery := `
		UPDATE bookings
		SET status = 'COMPLETED', completed_at = NOW(),
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status = 'IN_TRANSIT' AND version = $2
	`

	return r.releaseTx(ctx, params, bookingQuery, params.BookingID, params.Version)
}

// CancelAndRelease пишет CANCELLED с причиной и освобождает водителя
// одной транзакцией
func (r *AssignmentPgRepository) CancelAndRelease(ctx context.Context, params out.ReleaseParams) error {
	bookingQuery := `
		UPDATE bookings
		SET status = 'CANCELLED', cancel_reason = $3, cancelled_by = 'DRIVER',
		    cancelled_at = NOW(), version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED') AND version = $2
	`

	return r.releaseTx(ctx, params, bookingQuery, params.BookingID, params.Version, params.Reason)
}

// releaseTx — общий транзакционный скелет терминальной записи:
// условный UPDATE заказа плюс сброс active_booking_id водителя.
func (r *AssignmentPgRepository) releaseTx(ctx context.Context, params out.ReleaseParams, bookingQuery string, bookingArgs ...any) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	result, err := tx.Exec(ctx, bookingQuery, bookingArgs...)
	if err != nil {
		return fmt.Errorf("terminal booking update: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	driverQuery := `
		UPDATE drivers
		SET active_booking_id = NULL, availability_status = 'AVAILABLE',
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND active_booking_id = $2
	`

	result, err = tx.Exec(ctx, driverQuery, params.DriverID, params.BookingID)
	if err != nil {
		return fmt.Errorf("release driver: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit terminal transition: %w", err)
	}

	r.log.Debug(logger.Entry{
		Action:    "db_driver_released",
		Message:   "terminal transition committed",
		BookingID: params.BookingID,
		Additional: map[string]any{
			"driver_id": params.DriverID,
		},
	})

	return nil
}
