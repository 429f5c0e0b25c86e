package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID            int64
	BookingNumber string
	UserID        int64
	ScheduleID    int64
	SeatNumber    *string
	TotalAmount   int64
	ContactEmail  string
	ContactPhone  string
	PaymentMethod string
	Status        BookingStatus
	CreatedAt     time.Time
	Passengers    []Passenger
}

type Passenger struct {
	ID         int64   `json:"-"`
	BookingID  int64   `json:"-"`
	Name       string  `json:"name_kor"`
	NameEn     string  `json:"name_eng"`
	BirthDate  string  `json:"birth_date"`
	Gender     string  `json:"gender"`
	SeatNumber *string `json:"seat_number"`
}

// BookingDetail is a booking joined with its flight for display.
type BookingDetail struct {
	BookingID        int64         `json:"booking_id"`
	BookingNumber    string        `json:"booking_number"`
	UserID           int64         `json:"-"`
	UserName         string        `json:"user_name,omitempty"`
	ScheduleID       int64         `json:"schedule_id"`
	SeatNumber       *string       `json:"seat_number"`
	TotalAmount      int64         `json:"total_amount"`
	ContactEmail     string        `json:"contact_email"`
	ContactPhone     string        `json:"contact_phone"`
	PaymentMethod    string        `json:"payment_method"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	FlightDate       string        `json:"flight_date"`
	FlightID         string        `json:"flight_id"`
	Airline          string        `json:"airline"`
	DepartureAirport string        `json:"departure_airport"`
	ArrivalAirport   string        `json:"arrival_airport"`
	DepartureTime    string        `json:"departure_time"`
	ArrivalTime      string        `json:"arrival_time"`
	Duration         string        `json:"duration"`
	Aircraft         string        `json:"aircraft"`
	DepartureName    string        `json:"departure_name"`
	ArrivalName      string        `json:"arrival_name"`
	Passengers       []Passenger   `json:"passengers"`
}
