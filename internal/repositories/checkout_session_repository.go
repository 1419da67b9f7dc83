package repositories

import (
	"context"

	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/jackc/pgx/v4"
)

// CheckoutSessionRepository defines the interface for checkout-session
// persistence.
type CheckoutSessionRepository interface {
	Create(ctx context.Context, s *models.CheckoutSession) error
	GetByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.CheckoutSession, error)
}

type checkoutSessionRepo struct {
	db DB
}

// NewCheckoutSessionRepository creates a new instance of the repository.
func NewCheckoutSessionRepository(db DB) CheckoutSessionRepository {
	return &checkoutSessionRepo{db: db}
}

func baseSelectSession() string {
	return `
		SELECT
			id, stripe_session_id, customer_id, customer_email,
			amount_total, currency, payment_status, created_at, updated_at
		FROM checkout_sessions
	`
}

func (r *checkoutSessionRepo) scanSession(row pgx.Row) (*models.CheckoutSession, error) {
	var s models.CheckoutSession
	err := row.Scan(
		&s.ID, &s.StripeSessionID, &s.CustomerID, &s.CustomerEmail,
		&s.AmountTotal, &s.Currency, &s.PaymentStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new session row. A retried delivery for the same Stripe
// session hits the unique constraint on stripe_session_id and surfaces as
// ErrUniqueViolation, which the service layer treats as a duplicate signal.
func (r *checkoutSessionRepo) Create(ctx context.Context, s *models.CheckoutSession) error {
	q := `
		INSERT INTO checkout_sessions (
			id, stripe_session_id, customer_id, customer_email,
			amount_total, currency, payment_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, q,
		s.ID, s.StripeSessionID, s.CustomerID, s.CustomerEmail,
		s.AmountTotal, s.Currency, s.PaymentStatus,
	)
	return classifyPgError(err)
}

func (r *checkoutSessionRepo) GetByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.CheckoutSession, error) {
	row := r.db.QueryRow(ctx, baseSelectSession()+" WHERE stripe_session_id=$1", stripeSessionID)
	return r.scanSession(row)
}
