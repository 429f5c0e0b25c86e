package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusActive   ScheduleStatus = "ACTIVE"
	ScheduleStatusInactive ScheduleStatus = "INACTIVE"
)

// FlightSchedule is one flight on one calendar date, the unit of seat inventory.
type FlightSchedule struct {
	ID             int64
	FlightID       string
	FlightDate     time.Time
	CurrentPrice   int64
	AvailableSeats int
	TotalSeats     int
	Status         ScheduleStatus
}

type Airport struct {
	Code    string `json:"airport_code" db:"airport_code"`
	Name    string `json:"airport_name" db:"airport_name"`
	City    string `json:"city" db:"city"`
	Country string `json:"country" db:"country"`
}

// FlightOffer is a searchable schedule with the active discount applied.
type FlightOffer struct {
	ScheduleID         int64    `json:"schedule_id" db:"schedule_id"`
	FlightID           string   `json:"flight_id" db:"flight_id"`
	Airline            string   `json:"airline" db:"airline"`
	DepartureAirport   string   `json:"departure_airport" db:"departure_airport"`
	ArrivalAirport     string   `json:"arrival_airport" db:"arrival_airport"`
	DepartureName      string   `json:"departure_name" db:"departure_name"`
	ArrivalName        string   `json:"arrival_name" db:"arrival_name"`
	DepartureTime      string   `json:"departure_time" db:"departure_time"`
	ArrivalTime        string   `json:"arrival_time" db:"arrival_time"`
	Duration           string   `json:"duration" db:"duration"`
	Aircraft           string   `json:"aircraft" db:"aircraft"`
	Date               string   `json:"date" db:"flight_date"`
	OriginalPrice      int64    `json:"original_price" db:"original_price"`
	Price              int64    `json:"price" db:"price"`
	AvailableSeats     int      `json:"available_seats" db:"available_seats"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty" db:"discount_percentage"`
	HasDiscount        bool     `json:"has_discount" db:"has_discount"`
}

// DiscountedPrice applies a percentage markdown rounded to the nearest unit.
func DiscountedPrice(price int64, pct float64) int64 {
	v := float64(price) * (1 - pct/100)
	if v < 0 {
		return 0
	}
	return int64(v + 0.5)
}
