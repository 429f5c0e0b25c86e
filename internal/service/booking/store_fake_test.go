package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/repository"
)

// memStore is an in-memory BookingStore. One mutex held for the whole of
// InTx stands in for the schedule and booking row locks, and a snapshot taken
// at begin is restored when the transaction fails.
type memStore struct {
	mu         sync.Mutex
	schedules  map[int64]*domain.FlightSchedule
	bookings   map[int64]*domain.Booking
	passengers map[int64][]domain.Passenger
	nextID     int64
	failOn     map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		schedules:  map[int64]*domain.FlightSchedule{},
		bookings:   map[int64]*domain.Booking{},
		passengers: map[int64][]domain.Passenger{},
		failOn:     map[string]error{},
	}
}

func (m *memStore) addSchedule(id int64, flightID string, total, available int) {
	m.schedules[id] = &domain.FlightSchedule{
		ID:             id,
		FlightID:       flightID,
		FlightDate:     time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		CurrentPrice:   100000,
		AvailableSeats: available,
		TotalSeats:     total,
		Status:         domain.ScheduleStatusActive,
	}
}

func (m *memStore) available(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedules[id].AvailableSeats
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *memStore) bookingByNumber(number string) *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.BookingNumber == number {
			c := *b
			c.Passengers = append([]domain.Passenger(nil), m.passengers[b.ID]...)
			return &c
		}
	}
	return nil
}

type memSnapshot struct {
	schedules  map[int64]domain.FlightSchedule
	bookings   map[int64]domain.Booking
	passengers map[int64][]domain.Passenger
	nextID     int64
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		schedules:  make(map[int64]domain.FlightSchedule, len(m.schedules)),
		bookings:   make(map[int64]domain.Booking, len(m.bookings)),
		passengers: make(map[int64][]domain.Passenger, len(m.passengers)),
		nextID:     m.nextID,
	}
	for id, v := range m.schedules {
		s.schedules[id] = *v
	}
	for id, v := range m.bookings {
		s.bookings[id] = *v
	}
	for id, v := range m.passengers {
		s.passengers[id] = append([]domain.Passenger(nil), v...)
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.schedules = make(map[int64]*domain.FlightSchedule, len(s.schedules))
	for id, v := range s.schedules {
		v := v
		m.schedules[id] = &v
	}
	m.bookings = make(map[int64]*domain.Booking, len(s.bookings))
	for id, v := range s.bookings {
		v := v
		m.bookings[id] = &v
	}
	m.passengers = s.passengers
	m.nextID = s.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.BookingTx) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	defer func() {
		if r := recover(); r != nil {
			m.restore(snap)
			panic(r)
		}
		if err != nil {
			m.restore(snap)
		}
	}()
	return fn(ctx, &memTx{m: m})
}

func (m *memStore) GetAvailability(_ context.Context, scheduleID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[scheduleID]
	if !ok {
		return 0, domain.NotFound("schedule %d not found", scheduleID)
	}
	return s.AvailableSeats, nil
}

type memTx struct {
	m *memStore
}

func (t *memTx) fail(op string) error {
	if err, ok := t.m.failOn[op]; ok {
		return domain.Storage(op, err)
	}
	return nil
}

func (t *memTx) LockSchedule(_ context.Context, scheduleID int64) (*domain.FlightSchedule, error) {
	if err := t.fail("LockSchedule"); err != nil {
		return nil, err
	}
	s, ok := t.m.schedules[scheduleID]
	if !ok || s.Status != domain.ScheduleStatusActive {
		return nil, domain.NotFound("active schedule %d not found", scheduleID)
	}
	c := *s
	return &c, nil
}

func (t *memTx) Reserve(_ context.Context, scheduleID int64, seats int) error {
	if err := t.fail("Reserve"); err != nil {
		return err
	}
	if seats <= 0 {
		return domain.Validation("seat count must be positive")
	}
	s, ok := t.m.schedules[scheduleID]
	if !ok || s.AvailableSeats < seats {
		return domain.ErrInsufficientSeats
	}
	s.AvailableSeats -= seats
	return nil
}

func (t *memTx) Release(_ context.Context, scheduleID int64, seats int) error {
	if err := t.fail("Release"); err != nil {
		return err
	}
	if seats <= 0 {
		return domain.Validation("seat count must be positive")
	}
	s, ok := t.m.schedules[scheduleID]
	if !ok || s.AvailableSeats+seats > s.TotalSeats {
		return &domain.Error{Kind: domain.KindStorage, Reason: "release would exceed flight capacity"}
	}
	s.AvailableSeats += seats
	return nil
}

func (t *memTx) SeatTaken(_ context.Context, scheduleID int64, seat string) (bool, error) {
	if err := t.fail("SeatTaken"); err != nil {
		return false, err
	}
	target, ok := t.m.schedules[scheduleID]
	if !ok {
		return false, nil
	}
	for id, b := range t.m.bookings {
		if b.Status != domain.BookingStatusConfirmed {
			continue
		}
		s := t.m.schedules[b.ScheduleID]
		if s.FlightID != target.FlightID || !s.FlightDate.Equal(target.FlightDate) {
			continue
		}
		for _, p := range t.m.passengers[id] {
			if p.SeatNumber != nil && *p.SeatNumber == seat {
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *domain.Booking) error {
	if err := t.fail("InsertBooking"); err != nil {
		return err
	}
	for _, existing := range t.m.bookings {
		if existing.BookingNumber == b.BookingNumber {
			return domain.Storage("insert booking", errors.New("duplicate booking number"))
		}
	}
	t.m.nextID++
	b.ID = t.m.nextID
	b.CreatedAt = time.Now()
	c := *b
	t.m.bookings[b.ID] = &c
	return nil
}

func (t *memTx) InsertPassengers(_ context.Context, bookingID int64, passengers []domain.Passenger) error {
	if err := t.fail("InsertPassengers"); err != nil {
		return err
	}
	for i := range passengers {
		t.m.nextID++
		passengers[i].ID = t.m.nextID
		passengers[i].BookingID = bookingID
	}
	t.m.passengers[bookingID] = append(t.m.passengers[bookingID], passengers...)
	return nil
}

func (t *memTx) LockConfirmedBooking(_ context.Context, userID int64, bookingNumber string) (*domain.Booking, int, error) {
	if err := t.fail("LockConfirmedBooking"); err != nil {
		return nil, 0, err
	}
	for id, b := range t.m.bookings {
		if b.BookingNumber == bookingNumber && b.UserID == userID && b.Status == domain.BookingStatusConfirmed {
			c := *b
			return &c, len(t.m.passengers[id]), nil
		}
	}
	return nil, 0, domain.NotFound("no cancellable booking %s", bookingNumber)
}

func (t *memTx) SetBookingStatus(_ context.Context, bookingID int64, status domain.BookingStatus) error {
	if err := t.fail("SetBookingStatus"); err != nil {
		return err
	}
	b, ok := t.m.bookings[bookingID]
	if !ok {
		return domain.NotFound("booking %d not found", bookingID)
	}
	b.Status = status
	return nil
}

var _ repository.BookingStore = (*memStore)(nil)
