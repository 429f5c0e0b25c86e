package domain

import "time"

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventPaymentRequested = "payment_requested"
	EventPaymentPaid      = "payment_paid"
	EventPaymentFailed    = "payment_failed"
	EventPaymentAttached  = "payment_attached"
)

// BookingEvent is published after a booking transaction commits.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     int64     `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	UserID        int64     `json:"user_id"`
	ScheduleID    int64     `json:"schedule_id"`
	Passengers    int       `json:"passengers"`
	SeatNumber    *string   `json:"seat_number,omitempty"`
	Email         string    `json:"email,omitempty"`
	TotalAmount   int64     `json:"total_amount,omitempty"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type PaymentEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	BookingID  *int64    `json:"booking_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	ReceiptID  string    `json:"receipt_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
