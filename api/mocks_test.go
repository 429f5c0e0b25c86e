package api

import (
	"context"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/service/booking"
	"github.com/cloudjet/airbooking/internal/service/payment"
	"github.com/stretchr/testify/mock"
)

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*booking.BookingResult, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*booking.BookingResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, userID int64, bookingNumber string) error {
	return m.Called(ctx, userID, bookingNumber).Error(0)
}

func (m *MockBookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BookingDetail), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, userID int64, bookingNumber string) (*domain.BookingDetail, error) {
	args := m.Called(ctx, userID, bookingNumber)
	if v := args.Get(0); v != nil {
		return v.(*domain.BookingDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookingService) OccupiedSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingService) Availability(ctx context.Context, scheduleID int64) (int, error) {
	args := m.Called(ctx, scheduleID)
	return args.Int(0), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) InitPayment(ctx context.Context, input payment.InitPaymentInput) (*payment.PaymentInit, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*payment.PaymentInit), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) MarkPaid(ctx context.Context, orderID, receiptID, rawPayload string) error {
	return m.Called(ctx, orderID, receiptID, rawPayload).Error(0)
}

func (m *MockPaymentService) MarkFailed(ctx context.Context, orderID, rawPayload string) error {
	return m.Called(ctx, orderID, rawPayload).Error(0)
}

func (m *MockPaymentService) AttachBooking(ctx context.Context, orderID string, bookingID int64) error {
	return m.Called(ctx, orderID, bookingID).Error(0)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, input payment.WebhookInput) (*payment.WebhookResult, error) {
	args := m.Called(ctx, input)
	if v := args.Get(0); v != nil {
		return v.(*payment.WebhookResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, userID int64, orderID string) (*domain.Payment, error) {
	args := m.Called(ctx, userID, orderID)
	if v := args.Get(0); v != nil {
		return v.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFlightService struct{ mock.Mock }

func (m *MockFlightService) Search(ctx context.Context, departure, arrival, date string) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, departure, arrival, date)
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightService) Featured(ctx context.Context) ([]domain.FlightOffer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightService) Airports(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

type MockDiscountService struct{ mock.Mock }

func (m *MockDiscountService) Create(ctx context.Context, scheduleID int64, percentage float64) (*domain.Discount, error) {
	args := m.Called(ctx, scheduleID, percentage)
	if v := args.Get(0); v != nil {
		return v.(*domain.Discount), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDiscountService) List(ctx context.Context) ([]domain.DiscountDetail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.DiscountDetail), args.Error(1)
}

func (m *MockDiscountService) Delete(ctx context.Context, discountID int64) error {
	return m.Called(ctx, discountID).Error(0)
}
