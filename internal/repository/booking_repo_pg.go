package repository

import (
	"context"
	"errors"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the read side of bookings. All writes go through
// BookingTx.
type BookingRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	GetByNumber(ctx context.Context, bookingNumber string) (*domain.BookingDetail, error)
	OccupiedSeats(ctx context.Context, scheduleID int64) ([]string, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingDetailSelect = `
	SELECT b.booking_id, b.booking_number, b.user_id, b.schedule_id, b.seat_number,
	       b.total_amount, b.contact_email, b.contact_phone, b.payment_method, b.status,
	       b.created_at,
	       to_char(fs.flight_date, 'YYYY-MM-DD'), f.flight_id, f.airline,
	       f.departure_airport, f.arrival_airport,
	       to_char(f.departure_time, 'HH24:MI'), to_char(f.arrival_time, 'HH24:MI'),
	       to_char(f.duration, 'HH24:MI'), f.aircraft,
	       dep.airport_name, arr.airport_name
	FROM bookings b
	JOIN flight_schedules fs ON fs.schedule_id = b.schedule_id
	JOIN flights f ON f.flight_id = fs.flight_id
	JOIN airports dep ON dep.airport_code = f.departure_airport
	JOIN airports arr ON arr.airport_code = f.arrival_airport`

func scanBookingDetail(row pgx.Row) (*domain.BookingDetail, error) {
	var d domain.BookingDetail
	err := row.Scan(&d.BookingID, &d.BookingNumber, &d.UserID, &d.ScheduleID, &d.SeatNumber,
		&d.TotalAmount, &d.ContactEmail, &d.ContactPhone, &d.PaymentMethod, &d.Status,
		&d.CreatedAt,
		&d.FlightDate, &d.FlightID, &d.Airline,
		&d.DepartureAirport, &d.ArrivalAirport,
		&d.DepartureTime, &d.ArrivalTime,
		&d.Duration, &d.Aircraft,
		&d.DepartureName, &d.ArrivalName)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	rows, err := r.db.Query(ctx, bookingDetailSelect+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, domain.Storage("list bookings", err)
	}
	defer rows.Close()

	var bookings []domain.BookingDetail
	ids := make([]int64, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, domain.Storage("scan booking", err)
		}
		bookings = append(bookings, *d)
		ids = append(ids, d.BookingID)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list bookings", err)
	}
	if len(bookings) == 0 {
		return []domain.BookingDetail{}, nil
	}

	byBooking, err := r.passengers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Passengers = byBooking[bookings[i].BookingID]
	}
	return bookings, nil
}

func (r *PGBookingRepository) GetByNumber(ctx context.Context, bookingNumber string) (*domain.BookingDetail, error) {
	d, err := scanBookingDetail(r.db.QueryRow(ctx, bookingDetailSelect+` WHERE b.booking_number = $1`, bookingNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("booking %s not found", bookingNumber)
	}
	if err != nil {
		return nil, domain.Storage("get booking", err)
	}

	byBooking, err := r.passengers(ctx, []int64{d.BookingID})
	if err != nil {
		return nil, err
	}
	d.Passengers = byBooking[d.BookingID]
	return d, nil
}

func (r *PGBookingRepository) passengers(ctx context.Context, bookingIDs []int64) (map[int64][]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `
		SELECT passenger_id, booking_id, name_kor, name_eng, birth_date, gender, seat_number
		FROM passengers
		WHERE booking_id = ANY($1)
		ORDER BY passenger_id`, bookingIDs)
	if err != nil {
		return nil, domain.Storage("list passengers", err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.Passenger, len(bookingIDs))
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.NameEn, &p.BirthDate, &p.Gender, &p.SeatNumber); err != nil {
			return nil, domain.Storage("scan passenger", err)
		}
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	return out, domain.Storage("list passengers", rows.Err())
}

func (r *PGBookingRepository) OccupiedSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT p.seat_number
		FROM passengers p
		JOIN bookings b ON b.booking_id = p.booking_id
		WHERE b.schedule_id = $1
		  AND b.status = 'CONFIRMED'
		  AND p.seat_number IS NOT NULL
		ORDER BY p.seat_number`, scheduleID)
	if err != nil {
		return nil, domain.Storage("occupied seats", err)
	}
	defer rows.Close()

	seats := make([]string, 0)
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return nil, domain.Storage("scan seat", err)
		}
		seats = append(seats, seat)
	}
	return seats, domain.Storage("occupied seats", rows.Err())
}

var _ BookingRepository = (*PGBookingRepository)(nil)
