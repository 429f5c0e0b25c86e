package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/cloudjet/airbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PaymentUseCase interface {
	InitPayment(ctx context.Context, input InitPaymentInput) (*PaymentInit, error)
	MarkPaid(ctx context.Context, orderID, receiptID, rawPayload string) error
	MarkFailed(ctx context.Context, orderID, rawPayload string) error
	AttachBooking(ctx context.Context, orderID string, bookingID int64) error
	HandleWebhook(ctx context.Context, input WebhookInput) (*WebhookResult, error)
	GetPayment(ctx context.Context, userID int64, orderID string) (*domain.Payment, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Settings are the provider credentials and checkout defaults.
type Settings struct {
	ApplicationID    string
	PrivateKey       string
	StrictSignature  bool
	DefaultOrderName string
}

type InitPaymentInput struct {
	UserID     int64
	Amount     int64
	OrderID    string
	ScheduleID *int64
	Method     string
	Provider   string
	OrderName  string
}

// Checkout is handed to the client-side payment widget.
type Checkout struct {
	ApplicationID string `json:"application_id"`
	Price         int64  `json:"price"`
	OrderName     string `json:"order_name"`
	PG            string `json:"pg"`
	Method        string `json:"method"`
}

type PaymentInit struct {
	PaymentID int64    `json:"payment_id"`
	OrderID   string   `json:"order_id"`
	Checkout  Checkout `json:"bootpay"`
}

type WebhookInput struct {
	RawBody     []byte
	ContentType string
	Signature   string
}

type WebhookResult struct {
	OrderID string               `json:"order_id"`
	Status  domain.PaymentStatus `json:"status"`
}

type PaymentService struct {
	payments  repository.PaymentRepository
	producer  Producer
	topic     string
	settings  Settings
	logger    logrus.FieldLogger
	newSuffix func() string
	now       func() time.Time
}

type PaymentServiceOption func(*PaymentService)

func WithLogger(logger logrus.FieldLogger) PaymentServiceOption {
	return func(s *PaymentService) {
		s.logger = logger
	}
}

func WithEvents(producer Producer, topic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.producer = producer
		s.topic = topic
	}
}

// WithOrderSuffix replaces the random suffix of generated order ids.
func WithOrderSuffix(gen func() string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.newSuffix = gen
	}
}

func NewPaymentService(payments repository.PaymentRepository, settings Settings, opts ...PaymentServiceOption) *PaymentService {
	service := &PaymentService{
		payments:  payments,
		settings:  settings,
		logger:    logrus.StandardLogger(),
		newSuffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// OrderID builds CJ-ORD-{user}-{schedule|NA}-{suffix}.
func OrderID(userID int64, scheduleID *int64, suffix string) string {
	schedule := "NA"
	if scheduleID != nil {
		schedule = fmt.Sprint(*scheduleID)
	}
	return fmt.Sprintf("CJ-ORD-%d-%s-%s", userID, schedule, suffix)
}

func normalizeMethod(method string) domain.PaymentMethod {
	if method == "" || strings.EqualFold(method, string(domain.PaymentMethodCard)) {
		return domain.PaymentMethodCard
	}
	return domain.PaymentMethodKakao
}

func normalizeProvider(provider string) domain.PaymentProvider {
	if provider == "" || strings.EqualFold(provider, string(domain.PaymentProviderNicepay)) {
		return domain.PaymentProviderNicepay
	}
	return domain.PaymentProviderKakao
}

func (s *PaymentService) InitPayment(ctx context.Context, input InitPaymentInput) (*PaymentInit, error) {
	if input.UserID <= 0 {
		return nil, domain.Validation("user id is required")
	}
	if input.Amount <= 0 {
		return nil, domain.Validation("amount must be positive")
	}

	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		orderID = OrderID(input.UserID, input.ScheduleID, s.newSuffix())
	}

	p := &domain.Payment{
		OrderID:  orderID,
		UserID:   input.UserID,
		Method:   normalizeMethod(input.Method),
		Provider: normalizeProvider(input.Provider),
		Amount:   input.Amount,
		Status:   domain.PaymentStatusRequested,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	orderName := input.OrderName
	if orderName == "" {
		orderName = s.settings.DefaultOrderName
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  p.UserID,
		"order_id": p.OrderID,
		"amount":   p.Amount,
		"method":   p.Method,
		"provider": p.Provider,
	}).Info("payment requested")
	s.publish(ctx, domain.PaymentEvent{
		Type:    domain.EventPaymentRequested,
		OrderID: p.OrderID,
		Status:  string(p.Status),
		Amount:  p.Amount,
	})

	return &PaymentInit{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		Checkout: Checkout{
			ApplicationID: s.settings.ApplicationID,
			Price:         p.Amount,
			OrderName:     orderName,
			PG:            strings.ToLower(string(p.Provider)),
			Method:        strings.ToLower(string(p.Method)),
		},
	}, nil
}

// MarkPaid does not look at the current status; the last notification wins.
func (s *PaymentService) MarkPaid(ctx context.Context, orderID, receiptID, rawPayload string) error {
	if orderID == "" || receiptID == "" {
		return domain.Validation("order id and receipt id are required")
	}
	if err := s.payments.MarkPaid(ctx, orderID, receiptID, rawPayload); err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentEvent{
		Type:      domain.EventPaymentPaid,
		OrderID:   orderID,
		Status:    string(domain.PaymentStatusPaid),
		ReceiptID: receiptID,
	})
	return nil
}

// MarkFailed also applies to PAID payments.
func (s *PaymentService) MarkFailed(ctx context.Context, orderID, rawPayload string) error {
	if orderID == "" {
		return domain.Validation("order id is required")
	}
	if err := s.payments.MarkFailed(ctx, orderID, rawPayload); err != nil {
		return err
	}
	s.publish(ctx, domain.PaymentEvent{
		Type:    domain.EventPaymentFailed,
		OrderID: orderID,
		Status:  string(domain.PaymentStatusFailed),
	})
	return nil
}

func (s *PaymentService) AttachBooking(ctx context.Context, orderID string, bookingID int64) error {
	if strings.TrimSpace(orderID) == "" || bookingID <= 0 {
		return domain.Validation("orderId and bookingId are required")
	}
	if err := s.payments.AttachBooking(ctx, orderID, bookingID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"order_id":   orderID,
		"booking_id": bookingID,
	}).Info("payment attached to booking")
	s.publish(ctx, domain.PaymentEvent{
		Type:      domain.EventPaymentAttached,
		OrderID:   orderID,
		BookingID: &bookingID,
	})
	return nil
}

// HandleWebhook authenticates and applies a provider notification. When no
// signature is supplied the body is trusted unless strict mode is on.
func (s *PaymentService) HandleWebhook(ctx context.Context, input WebhookInput) (*WebhookResult, error) {
	log := s.logger.WithField("content_type", input.ContentType)

	switch {
	case input.Signature != "":
		if !VerifySignature(s.settings.PrivateKey, input.RawBody, input.Signature) {
			log.Warn("webhook signature mismatch")
			return nil, domain.NewError(domain.KindAuth, "signature verification failed")
		}
	case s.settings.StrictSignature:
		log.Warn("unsigned webhook rejected")
		return nil, domain.NewError(domain.KindAuth, "signature header is required")
	default:
		log.Warn("unsigned webhook accepted")
	}

	n, err := ParseNotification(input.ContentType, input.RawBody)
	if err != nil {
		log.WithError(err).Warn("webhook rejected")
		return nil, err
	}
	log = log.WithFields(logrus.Fields{
		"order_id":   n.OrderID,
		"status":     n.Status,
		"receipt_id": n.ReceiptID,
		"amount":     n.Amount,
	})

	raw := string(input.RawBody)
	result := &WebhookResult{OrderID: n.OrderID}
	if n.Paid() {
		err = s.MarkPaid(ctx, n.OrderID, n.ReceiptID, raw)
		result.Status = domain.PaymentStatusPaid
	} else {
		err = s.MarkFailed(ctx, n.OrderID, raw)
		result.Status = domain.PaymentStatusFailed
	}
	if err != nil {
		log.WithError(err).Error("webhook update failed")
		return nil, err
	}

	log.Info("webhook applied")
	return result, nil
}

// GetPayment hides payments of other users behind NotFound.
func (s *PaymentService) GetPayment(ctx context.Context, userID int64, orderID string) (*domain.Payment, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.Validation("order id is required")
	}
	p, err := s.payments.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.NotFound("payment %s not found", orderID)
	}
	return p, nil
}

func (s *PaymentService) publish(ctx context.Context, event domain.PaymentEvent) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.producer.Publish(ctx, s.topic, event.OrderID, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"event":    event.Type,
			"order_id": event.OrderID,
		}).WithError(err).Warn("failed to publish payment event")
	}
}

var _ PaymentUseCase = (*PaymentService)(nil)
