package repository

import (
	"context"
	"errors"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DiscountRepository interface {
	// Create inserts an ACTIVE discount. It fails with a conflict when the
	// schedule already has one.
	Create(ctx context.Context, scheduleID int64, percentage float64) (*domain.Discount, error)
	ListActive(ctx context.Context) ([]domain.DiscountDetail, error)
	Deactivate(ctx context.Context, discountID int64) error
}

type PGDiscountRepository struct {
	db *pgxpool.Pool
}

func NewDiscountRepository(db *pgxpool.Pool) *PGDiscountRepository {
	return &PGDiscountRepository{db: db}
}

func (r *PGDiscountRepository) Create(ctx context.Context, scheduleID int64, percentage float64) (*domain.Discount, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.Storage("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	// The schedule row lock serializes concurrent creates for one schedule.
	var id int64
	err = tx.QueryRow(ctx, `SELECT schedule_id FROM flight_schedules WHERE schedule_id = $1 FOR UPDATE`, scheduleID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("schedule %d not found", scheduleID)
	}
	if err != nil {
		return nil, domain.Storage("lock schedule", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM flight_discounts WHERE schedule_id = $1 AND status = 'ACTIVE'
		)`, scheduleID).Scan(&exists); err != nil {
		return nil, domain.Storage("check discount", err)
	}
	if exists {
		return nil, domain.NewError(domain.KindConflict, "schedule already has an active discount")
	}

	d := domain.Discount{ScheduleID: scheduleID, Percentage: percentage, Status: domain.DiscountStatusActive}
	if err := tx.QueryRow(ctx, `
		INSERT INTO flight_discounts (schedule_id, discount_percentage, status)
		VALUES ($1, $2, $3)
		RETURNING discount_id, created_at`, d.ScheduleID, d.Percentage, d.Status,
	).Scan(&d.ID, &d.CreatedAt); err != nil {
		return nil, domain.Storage("insert discount", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Storage("commit transaction", err)
	}
	return &d, nil
}

func (r *PGDiscountRepository) ListActive(ctx context.Context) ([]domain.DiscountDetail, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.discount_id, d.schedule_id, d.discount_percentage, d.status, d.created_at,
		       f.flight_id, to_char(fs.flight_date, 'YYYY-MM-DD'), fs.current_price,
		       f.airline, f.departure_airport, f.arrival_airport,
		       dep.airport_name, arr.airport_name
		FROM flight_discounts d
		JOIN flight_schedules fs ON fs.schedule_id = d.schedule_id
		JOIN flights f ON f.flight_id = fs.flight_id
		JOIN airports dep ON dep.airport_code = f.departure_airport
		JOIN airports arr ON arr.airport_code = f.arrival_airport
		WHERE d.status = 'ACTIVE'
		ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, domain.Storage("list discounts", err)
	}
	defer rows.Close()

	discounts := make([]domain.DiscountDetail, 0)
	for rows.Next() {
		var d domain.DiscountDetail
		if err := rows.Scan(&d.ID, &d.ScheduleID, &d.Percentage, &d.Status, &d.CreatedAt,
			&d.FlightID, &d.FlightDate, &d.CurrentPrice,
			&d.Airline, &d.DepartureAirport, &d.ArrivalAirport,
			&d.DepartureName, &d.ArrivalName); err != nil {
			return nil, domain.Storage("scan discount", err)
		}
		d.DiscountedPrice = domain.DiscountedPrice(d.CurrentPrice, d.Percentage)
		discounts = append(discounts, d)
	}
	return discounts, domain.Storage("list discounts", rows.Err())
}

func (r *PGDiscountRepository) Deactivate(ctx context.Context, discountID int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE flight_discounts SET status = 'INACTIVE' WHERE discount_id = $1`, discountID)
	if err != nil {
		return domain.Storage("deactivate discount", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("discount %d not found", discountID)
	}
	return nil
}

var _ DiscountRepository = (*PGDiscountRepository)(nil)
