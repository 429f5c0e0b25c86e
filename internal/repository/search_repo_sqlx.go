package repository

import (
	"context"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jmoiron/sqlx"
)

// SearchRepository serves the read-only flight catalogue. It never takes
// row locks and is safe to cache.
type SearchRepository interface {
	Search(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error)
	Featured(ctx context.Context, limit int) ([]domain.FlightOffer, error)
	Airports(ctx context.Context) ([]domain.Airport, error)
}

type SQLXSearchRepository struct {
	db *sqlx.DB
}

func NewSearchRepository(db *sqlx.DB) *SQLXSearchRepository {
	return &SQLXSearchRepository{db: db}
}

const offerSelect = `
	SELECT fs.schedule_id, f.flight_id, f.airline,
	       f.departure_airport, f.arrival_airport,
	       dep.airport_name AS departure_name, arr.airport_name AS arrival_name,
	       to_char(f.departure_time, 'HH24:MI') AS departure_time,
	       to_char(f.arrival_time, 'HH24:MI') AS arrival_time,
	       to_char(f.duration, 'HH24:MI') AS duration,
	       f.aircraft,
	       to_char(fs.flight_date, 'YYYY-MM-DD') AS flight_date,
	       fs.current_price AS original_price,
	       fs.available_seats,
	       d.discount_percentage
	FROM flight_schedules fs
	JOIN flights f ON f.flight_id = fs.flight_id
	JOIN airports dep ON dep.airport_code = f.departure_airport
	JOIN airports arr ON arr.airport_code = f.arrival_airport`

func (r *SQLXSearchRepository) Search(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error) {
	offers := make([]domain.FlightOffer, 0)
	err := r.db.SelectContext(ctx, &offers, offerSelect+`
		LEFT JOIN flight_discounts d ON d.schedule_id = fs.schedule_id AND d.status = 'ACTIVE'
		WHERE f.departure_airport = $1
		  AND f.arrival_airport = $2
		  AND fs.flight_date = $3::date
		  AND fs.status = 'ACTIVE'
		  AND fs.available_seats > 0
		ORDER BY ROUND(fs.current_price * (100 - COALESCE(d.discount_percentage, 0)) / 100), f.departure_time`,
		departure, arrival, date)
	if err != nil {
		return nil, domain.Storage("search flights", err)
	}
	applyDiscounts(offers)
	return offers, nil
}

func (r *SQLXSearchRepository) Featured(ctx context.Context, limit int) ([]domain.FlightOffer, error) {
	offers := make([]domain.FlightOffer, 0)
	err := r.db.SelectContext(ctx, &offers, offerSelect+`
		JOIN flight_discounts d ON d.schedule_id = fs.schedule_id AND d.status = 'ACTIVE'
		WHERE fs.status = 'ACTIVE'
		  AND fs.available_seats > 0
		  AND fs.flight_date >= CURRENT_DATE
		ORDER BY d.discount_percentage DESC, fs.flight_date
		LIMIT $1`, limit)
	if err != nil {
		return nil, domain.Storage("featured flights", err)
	}
	applyDiscounts(offers)
	return offers, nil
}

func (r *SQLXSearchRepository) Airports(ctx context.Context) ([]domain.Airport, error) {
	airports := make([]domain.Airport, 0)
	err := r.db.SelectContext(ctx, &airports, `
		SELECT airport_code, airport_name, city, country
		FROM airports
		ORDER BY airport_code`)
	if err != nil {
		return nil, domain.Storage("list airports", err)
	}
	return airports, nil
}

// applyDiscounts fills the display price from the active discount, if any.
func applyDiscounts(offers []domain.FlightOffer) {
	for i := range offers {
		o := &offers[i]
		o.Price = o.OriginalPrice
		o.HasDiscount = o.DiscountPercentage != nil
		if o.HasDiscount {
			o.Price = domain.DiscountedPrice(o.OriginalPrice, *o.DiscountPercentage)
		}
	}
}

var _ SearchRepository = (*SQLXSearchRepository)(nil)
