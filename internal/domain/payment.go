package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusRequested PaymentStatus = "REQUESTED"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentMethodCard  PaymentMethod = "CARD"
	PaymentMethodKakao PaymentMethod = "KAKAO"
)

type PaymentProvider string

const (
	PaymentProviderNicepay PaymentProvider = "NICEPAY"
	PaymentProviderKakao   PaymentProvider = "KAKAO"
)

// Payment is one payment attempt. It is linked to a booking only through
// BookingID, which stays nil until the booking is attached.
type Payment struct {
	ID         int64           `json:"payment_id"`
	OrderID    string          `json:"order_id"`
	BookingID  *int64          `json:"booking_id"`
	UserID     int64           `json:"user_id"`
	Method     PaymentMethod   `json:"method"`
	Provider   PaymentProvider `json:"provider"`
	Amount     int64           `json:"amount"`
	Status     PaymentStatus   `json:"status"`
	ReceiptID  *string         `json:"receipt_id,omitempty"`
	RawPayload *string         `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
