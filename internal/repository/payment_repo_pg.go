package repository

import (
	"context"
	"errors"

	"github.com/cloudjet/airbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// PaymentRepository stores payment attempts. Status updates are keyed by
// order id and are not conditioned on the current status.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	MarkPaid(ctx context.Context, orderID, receiptID, rawPayload string) error
	MarkFailed(ctx context.Context, orderID, rawPayload string) error
	AttachBooking(ctx context.Context, orderID string, bookingID int64) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PGPaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (order_id, user_id, method, provider, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING payment_id, created_at, updated_at`,
		p.OrderID, p.UserID, p.Method, p.Provider, p.Amount, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.NewError(domain.KindConflict, "order id already exists")
	}
	return domain.Storage("insert payment", err)
}

func (r *PGPaymentRepository) MarkPaid(ctx context.Context, orderID, receiptID, rawPayload string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = 'PAID', receipt_id = $2, raw_payload = $3, updated_at = now()
		WHERE order_id = $1`, orderID, receiptID, rawPayload)
	return affectedOne(cmd, err, "mark payment paid", orderID)
}

func (r *PGPaymentRepository) MarkFailed(ctx context.Context, orderID, rawPayload string) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = 'FAILED', raw_payload = $2, updated_at = now()
		WHERE order_id = $1`, orderID, rawPayload)
	return affectedOne(cmd, err, "mark payment failed", orderID)
}

func (r *PGPaymentRepository) AttachBooking(ctx context.Context, orderID string, bookingID int64) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE payments SET booking_id = $2, updated_at = now()
		WHERE order_id = $1`, orderID, bookingID)
	return affectedOne(cmd, err, "attach booking", orderID)
}

func (r *PGPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.QueryRow(ctx, `
		SELECT payment_id, order_id, booking_id, user_id, method, provider, amount, status,
		       receipt_id, raw_payload, created_at, updated_at
		FROM payments WHERE order_id = $1`, orderID,
	).Scan(&p.ID, &p.OrderID, &p.BookingID, &p.UserID, &p.Method, &p.Provider, &p.Amount, &p.Status,
		&p.ReceiptID, &p.RawPayload, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFound("payment %s not found", orderID)
	}
	if err != nil {
		return nil, domain.Storage("get payment", err)
	}
	return &p, nil
}

func affectedOne(cmd pgconn.CommandTag, err error, op, orderID string) error {
	if err != nil {
		return domain.Storage(op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("payment %s not found", orderID)
	}
	return nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
