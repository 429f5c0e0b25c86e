package booking

import (
	"context"
	"strings"
	"time"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error)
	CancelBooking(ctx context.Context, userID int64, bookingNumber string) error
	ListUserBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	GetBooking(ctx context.Context, userID int64, bookingNumber string) (*domain.BookingDetail, error)
	OccupiedSeats(ctx context.Context, scheduleID int64) ([]string, error)
	Availability(ctx context.Context, scheduleID int64) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Contact struct {
	Email string
	Phone string
}

type CreateBookingInput struct {
	UserID        int64
	ScheduleID    int64
	Passengers    []domain.Passenger
	Contact       Contact
	PaymentMethod string
	TotalAmount   int64
	// Seats selects a seat only when it holds exactly one entry; that seat
	// is then recorded for every passenger on the booking.
	Seats []string
}

type BookingResult struct {
	BookingNumber string `json:"booking_number"`
	BookingID     int64  `json:"booking_id"`
}

type BookingService struct {
	store              repository.BookingStore
	bookings           repository.BookingRepository
	producer           Producer
	logger             logrus.FieldLogger
	bookingTopic       string
	notificationsTopic string
	newNumber          func() (string, error)
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

// WithNumberGenerator replaces the booking number source.
func WithNumberGenerator(gen func() (string, error)) BookingServiceOption {
	return func(s *BookingService) {
		s.newNumber = gen
	}
}

func NewBookingService(
	store repository.BookingStore,
	bookings repository.BookingRepository,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		store:        store,
		bookings:     bookings,
		producer:     producer,
		logger:       logrus.StandardLogger(),
		bookingTopic: bookingTopic,
		newNumber:    NewBookingNumber,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func validateCreate(input CreateBookingInput) error {
	if input.UserID <= 0 {
		return domain.Validation("user id is required")
	}
	if input.ScheduleID <= 0 {
		return domain.Validation("schedule id is required")
	}
	if len(input.Passengers) == 0 {
		return domain.Validation("at least one passenger is required")
	}
	for i, p := range input.Passengers {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.NameEn) == "" ||
			strings.TrimSpace(p.BirthDate) == "" || strings.TrimSpace(p.Gender) == "" {
			return domain.Validation("passenger %d is missing name, english name, birth date or gender", i+1)
		}
	}
	if strings.TrimSpace(input.Contact.Email) == "" || strings.TrimSpace(input.Contact.Phone) == "" {
		return domain.Validation("contact email and phone are required")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return domain.Validation("payment method is required")
	}
	if input.TotalAmount < 0 {
		return domain.Validation("total amount must not be negative")
	}
	return nil
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var seat *string
	if len(input.Seats) == 1 && input.Seats[0] != "" {
		selected := input.Seats[0]
		seat = &selected
	}

	booking := &domain.Booking{
		UserID:        input.UserID,
		ScheduleID:    input.ScheduleID,
		SeatNumber:    seat,
		TotalAmount:   input.TotalAmount,
		ContactEmail:  input.Contact.Email,
		ContactPhone:  input.Contact.Phone,
		PaymentMethod: input.PaymentMethod,
		Status:        domain.BookingStatusConfirmed,
	}
	passengers := make([]domain.Passenger, len(input.Passengers))
	for i, p := range input.Passengers {
		p.SeatNumber = seat
		passengers[i] = p
	}

	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		schedule, err := tx.LockSchedule(ctx, input.ScheduleID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				return domain.ErrInsufficientSeats
			}
			return err
		}
		if schedule.AvailableSeats < len(passengers) {
			return domain.ErrInsufficientSeats
		}

		if seat != nil {
			taken, err := tx.SeatTaken(ctx, input.ScheduleID, *seat)
			if err != nil {
				return err
			}
			if taken {
				return domain.NewError(domain.KindSeatTaken, "seat "+*seat+" is already taken")
			}
		}

		number, err := s.newNumber()
		if err != nil {
			return domain.Storage("generate booking number", err)
		}
		booking.BookingNumber = number

		if err := tx.InsertBooking(ctx, booking); err != nil {
			return err
		}
		if err := tx.InsertPassengers(ctx, booking.ID, passengers); err != nil {
			return err
		}
		return tx.Reserve(ctx, input.ScheduleID, len(passengers))
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":     input.UserID,
			"schedule_id": input.ScheduleID,
			"passengers":  len(passengers),
			"error_kind":  domain.KindOf(err),
		}).WithError(err).Warn("booking rejected")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": booking.BookingNumber,
		"user_id":        booking.UserID,
		"schedule_id":    booking.ScheduleID,
		"passengers":     len(passengers),
		"total_amount":   booking.TotalAmount,
		"payment_method": booking.PaymentMethod,
	}).Info("booking created")

	s.publish(ctx, domain.BookingEvent{
		Type:          domain.EventBookingCreated,
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		UserID:        booking.UserID,
		ScheduleID:    booking.ScheduleID,
		Passengers:    len(passengers),
		SeatNumber:    booking.SeatNumber,
		Email:         booking.ContactEmail,
		TotalAmount:   booking.TotalAmount,
		Status:        string(booking.Status),
	})

	return &BookingResult{BookingNumber: booking.BookingNumber, BookingID: booking.ID}, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, userID int64, bookingNumber string) error {
	if userID <= 0 || strings.TrimSpace(bookingNumber) == "" {
		return domain.Validation("user id and booking number are required")
	}

	var (
		cancelled  *domain.Booking
		passengers int
	)
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		b, n, err := tx.LockConfirmedBooking(ctx, userID, bookingNumber)
		if err != nil {
			return err
		}
		if err := tx.SetBookingStatus(ctx, b.ID, domain.BookingStatusCancelled); err != nil {
			return err
		}
		if n > 0 {
			if err := tx.Release(ctx, b.ScheduleID, n); err != nil {
				return err
			}
		}
		b.Status = domain.BookingStatusCancelled
		cancelled, passengers = b, n
		return nil
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":        userID,
			"booking_number": bookingNumber,
			"error_kind":     domain.KindOf(err),
		}).WithError(err).Warn("cancellation rejected")
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_number": bookingNumber,
		"user_id":        userID,
		"schedule_id":    cancelled.ScheduleID,
		"released":       passengers,
	}).Info("booking cancelled")

	s.publish(ctx, domain.BookingEvent{
		Type:          domain.EventBookingCancelled,
		BookingID:     cancelled.ID,
		BookingNumber: cancelled.BookingNumber,
		UserID:        cancelled.UserID,
		ScheduleID:    cancelled.ScheduleID,
		Passengers:    passengers,
		SeatNumber:    cancelled.SeatNumber,
		Email:         cancelled.ContactEmail,
		TotalAmount:   cancelled.TotalAmount,
		Status:        string(cancelled.Status),
	})
	return nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	if userID <= 0 {
		return nil, domain.Validation("user id is required")
	}
	return s.bookings.ListByUser(ctx, userID)
}

// GetBooking hides bookings of other users behind NotFound.
func (s *BookingService) GetBooking(ctx context.Context, userID int64, bookingNumber string) (*domain.BookingDetail, error) {
	if userID <= 0 || strings.TrimSpace(bookingNumber) == "" {
		return nil, domain.Validation("user id and booking number are required")
	}
	detail, err := s.bookings.GetByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userID {
		return nil, domain.NotFound("booking %s not found", bookingNumber)
	}
	return detail, nil
}

func (s *BookingService) OccupiedSeats(ctx context.Context, scheduleID int64) ([]string, error) {
	if scheduleID <= 0 {
		return nil, domain.Validation("schedule id is required")
	}
	return s.bookings.OccupiedSeats(ctx, scheduleID)
}

func (s *BookingService) Availability(ctx context.Context, scheduleID int64) (int, error) {
	if scheduleID <= 0 {
		return 0, domain.Validation("schedule id is required")
	}
	return s.store.GetAvailability(ctx, scheduleID)
}

// publish runs after commit. A broker failure is logged and never undoes
// the booking.
func (s *BookingService) publish(ctx context.Context, event domain.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()

	log := s.logger.WithFields(logrus.Fields{
		"event":          event.Type,
		"booking_number": event.BookingNumber,
	})
	if err := s.producer.Publish(ctx, s.bookingTopic, event.BookingNumber, event); err != nil {
		log.WithError(err).Warn("failed to publish booking event")
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingNumber, event); err != nil {
			log.WithError(err).Warn("failed to publish notification event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
