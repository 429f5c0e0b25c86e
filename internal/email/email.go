package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/sirupsen/logrus"
)

// Sender turns booking and payment events into customer notifications. The
// delivery itself is a structured log line until a mail provider is wired.
type Sender struct {
	logger logrus.FieldLogger
}

func NewSender(logger logrus.FieldLogger) *Sender {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Sender{logger: logger}
}

func (s *Sender) SendBooking(ctx context.Context, event domain.BookingEvent) error {
	if event.Email == "" {
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"to":             event.Email,
		"event":          event.Type,
		"booking_number": event.BookingNumber,
		"schedule_id":    event.ScheduleID,
		"passengers":     event.Passengers,
	}).Info(bookingSubject(event))
	return nil
}

func (s *Sender) SendPayment(ctx context.Context, event domain.PaymentEvent) error {
	s.logger.WithFields(logrus.Fields{
		"event":    event.Type,
		"order_id": event.OrderID,
		"status":   event.Status,
	}).Info("payment notification")
	return nil
}

// Handle decodes a broker message by its "type" field and dispatches it.
// Unknown and malformed messages are logged and skipped so one bad message
// does not stall the consumer.
func (s *Sender) Handle(ctx context.Context, topic string, body []byte) error {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		s.logger.WithError(err).WithField("topic", topic).Warn("skipping undecodable event")
		return nil
	}

	switch {
	case strings.HasPrefix(envelope.Type, "booking_"):
		var event domain.BookingEvent
		if err := json.Unmarshal(body, &event); err != nil {
			s.logger.WithError(err).WithField("topic", topic).Warn("skipping malformed booking event")
			return nil
		}
		return s.SendBooking(ctx, event)
	case strings.HasPrefix(envelope.Type, "payment_"):
		var event domain.PaymentEvent
		if err := json.Unmarshal(body, &event); err != nil {
			s.logger.WithError(err).WithField("topic", topic).Warn("skipping malformed payment event")
			return nil
		}
		return s.SendPayment(ctx, event)
	default:
		s.logger.WithFields(logrus.Fields{"topic": topic, "type": envelope.Type}).Debug("ignoring event")
		return nil
	}
}

func bookingSubject(event domain.BookingEvent) string {
	switch event.Type {
	case domain.EventBookingCreated:
		return fmt.Sprintf("[CloudJet] 예약이 완료되었습니다 (%s)", event.BookingNumber)
	case domain.EventBookingCancelled:
		return fmt.Sprintf("[CloudJet] 예약이 취소되었습니다 (%s)", event.BookingNumber)
	default:
		return fmt.Sprintf("[CloudJet] 예약 알림 (%s)", event.BookingNumber)
	}
}
