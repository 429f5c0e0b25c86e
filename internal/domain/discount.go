package domain

import "time"

type DiscountStatus string

const (
	DiscountStatusActive   DiscountStatus = "ACTIVE"
	DiscountStatusInactive DiscountStatus = "INACTIVE"
)

type Discount struct {
	ID         int64          `json:"discount_id"`
	ScheduleID int64          `json:"schedule_id"`
	Percentage float64        `json:"discount_percentage"`
	Status     DiscountStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// DiscountDetail is an active discount joined with its schedule.
type DiscountDetail struct {
	Discount
	FlightID         string `json:"flight_id"`
	FlightDate       string `json:"flight_date"`
	CurrentPrice     int64  `json:"current_price"`
	DiscountedPrice  int64  `json:"discounted_price"`
	Airline          string `json:"airline"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureName    string `json:"departure_name"`
	ArrivalName      string `json:"arrival_name"`
}
