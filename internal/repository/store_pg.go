package repository

import (
	"context"
	"errors"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InventoryStore is the only way seat counts change. Its methods exist only
// on a transaction handle, so a reserve or release always commits together
// with the booking rows it accompanies.
type InventoryStore interface {
	// LockSchedule reads an ACTIVE schedule and holds its row lock until the
	// transaction ends.
	LockSchedule(ctx context.Context, scheduleID int64) (*domain.FlightSchedule, error)
	Reserve(ctx context.Context, scheduleID int64, seats int) error
	Release(ctx context.Context, scheduleID int64, seats int) error
}

// BookingTx is everything the booking and cancellation flows do inside one
// database transaction.
type BookingTx interface {
	InventoryStore
	SeatTaken(ctx context.Context, scheduleID int64, seat string) (bool, error)
	InsertBooking(ctx context.Context, booking *domain.Booking) error
	InsertPassengers(ctx context.Context, bookingID int64, passengers []domain.Passenger) error
	// LockConfirmedBooking returns the CONFIRMED booking owned by userID and
	// its passenger count, holding the booking row lock.
	LockConfirmedBooking(ctx context.Context, userID int64, bookingNumber string) (*domain.Booking, int, error)
	SetBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
}

type TxRunner interface {
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
}

type BookingStore interface {
	TxRunner
	GetAvailability(ctx context.Context, scheduleID int64) (int, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) InTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgBookingTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Storage("commit transaction", err)
	}
	return nil
}

func (s *PGStore) GetAvailability(ctx context.Context, scheduleID int64) (int, error) {
	var available int
	err := s.db.QueryRow(ctx, `SELECT available_seats FROM flight_schedules WHERE schedule_id = $1`, scheduleID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NotFound("schedule %d not found", scheduleID)
	}
	if err != nil {
		return 0, domain.Storage("read availability", err)
	}
	return available, nil
}

type pgBookingTx struct {
	q Querier
}

func (t *pgBookingTx) LockSchedule(ctx context.Context, scheduleID int64) (*domain.FlightSchedule, error) {
	row := t.q.QueryRow(ctx, `
		SELECT fs.schedule_id, fs.flight_id, fs.flight_date, fs.current_price,
		       fs.available_seats, f.total_seats, fs.status
		FROM flight_schedules fs
		JOIN flights f ON f.flight_id = fs.flight_id
		WHERE fs.schedule_id = $1 AND fs.status = 'ACTIVE'
		FOR UPDATE OF fs`, scheduleID)

	var s domain.FlightSchedule
	err := row.Scan(&s.ID, &s.FlightID, &s.FlightDate, &s.CurrentPrice, &s.AvailableSeats, &s.TotalSeats, &s.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("active schedule %d not found", scheduleID)
	}
	if err != nil {
		return nil, domain.Storage("lock schedule", err)
	}
	return &s, nil
}

func (t *pgBookingTx) Reserve(ctx context.Context, scheduleID int64, seats int) error {
	if seats <= 0 {
		return domain.Validation("seat count must be positive")
	}
	cmd, err := t.q.Exec(ctx, `
		UPDATE flight_schedules
		SET available_seats = available_seats - $2, updated_at = now()
		WHERE schedule_id = $1 AND available_seats >= $2`, scheduleID, seats)
	if err != nil {
		return domain.Storage("reserve seats", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInsufficientSeats
	}
	return nil
}

func (t *pgBookingTx) Release(ctx context.Context, scheduleID int64, seats int) error {
	if seats <= 0 {
		return domain.Validation("seat count must be positive")
	}
	cmd, err := t.q.Exec(ctx, `
		UPDATE flight_schedules fs
		SET available_seats = fs.available_seats + $2, updated_at = now()
		FROM flights f
		WHERE fs.schedule_id = $1
		  AND f.flight_id = fs.flight_id
		  AND fs.available_seats + $2 <= f.total_seats`, scheduleID, seats)
	if err != nil {
		return domain.Storage("release seats", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.Error{Kind: domain.KindStorage, Reason: "release would exceed flight capacity"}
	}
	return nil
}

func (t *pgBookingTx) SeatTaken(ctx context.Context, scheduleID int64, seat string) (bool, error) {
	var taken bool
	err := t.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM passengers p
			JOIN bookings b ON b.booking_id = p.booking_id
			JOIN flight_schedules fs ON fs.schedule_id = b.schedule_id
			JOIN flight_schedules target ON target.schedule_id = $1
			WHERE fs.flight_id = target.flight_id
			  AND fs.flight_date = target.flight_date
			  AND p.seat_number = $2
			  AND b.status = 'CONFIRMED'
		)`, scheduleID, seat).Scan(&taken)
	if err != nil {
		return false, domain.Storage("check seat", err)
	}
	return taken, nil
}

func (t *pgBookingTx) InsertBooking(ctx context.Context, b *domain.Booking) error {
	err := t.q.QueryRow(ctx, `
		INSERT INTO bookings (booking_number, user_id, schedule_id, seat_number, total_amount,
		                      contact_email, contact_phone, payment_method, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING booking_id, created_at`,
		b.BookingNumber, b.UserID, b.ScheduleID, b.SeatNumber, b.TotalAmount,
		b.ContactEmail, b.ContactPhone, b.PaymentMethod, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	return domain.Storage("insert booking", err)
}

func (t *pgBookingTx) InsertPassengers(ctx context.Context, bookingID int64, passengers []domain.Passenger) error {
	for i := range passengers {
		p := &passengers[i]
		p.BookingID = bookingID
		err := t.q.QueryRow(ctx, `
			INSERT INTO passengers (booking_id, name_kor, name_eng, birth_date, gender, seat_number)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING passenger_id`,
			bookingID, p.Name, p.NameEn, p.BirthDate, p.Gender, p.SeatNumber,
		).Scan(&p.ID)
		if err != nil {
			return domain.Storage("insert passenger", err)
		}
	}
	return nil
}

func (t *pgBookingTx) LockConfirmedBooking(ctx context.Context, userID int64, bookingNumber string) (*domain.Booking, int, error) {
	row := t.q.QueryRow(ctx, `
		SELECT booking_id, booking_number, user_id, schedule_id, seat_number, total_amount,
		       contact_email, contact_phone, payment_method, status, created_at
		FROM bookings
		WHERE booking_number = $1 AND user_id = $2 AND status = 'CONFIRMED'
		FOR UPDATE`, bookingNumber, userID)

	var b domain.Booking
	err := row.Scan(&b.ID, &b.BookingNumber, &b.UserID, &b.ScheduleID, &b.SeatNumber, &b.TotalAmount,
		&b.ContactEmail, &b.ContactPhone, &b.PaymentMethod, &b.Status, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, domain.NotFound("no cancellable booking %s", bookingNumber)
	}
	if err != nil {
		return nil, 0, domain.Storage("lock booking", err)
	}

	var passengers int
	if err := t.q.QueryRow(ctx, `SELECT COUNT(*) FROM passengers WHERE booking_id = $1`, b.ID).Scan(&passengers); err != nil {
		return nil, 0, domain.Storage("count passengers", err)
	}
	return &b, passengers, nil
}

func (t *pgBookingTx) SetBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	cmd, err := t.q.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE booking_id = $1`, bookingID, status)
	if err != nil {
		return domain.Storage("update booking status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("booking %d not found", bookingID)
	}
	return nil
}

var (
	_ BookingStore = (*PGStore)(nil)
	_ BookingTx    = (*pgBookingTx)(nil)
)
