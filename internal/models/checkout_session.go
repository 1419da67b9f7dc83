package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckoutSession is our durable record of a completed Stripe checkout.
// StripeSessionID is unique; a row is created exactly once per session and
// never mutated afterwards, so retried webhook deliveries are no-ops.
type CheckoutSession struct {
	ID              uuid.UUID `json:"id"`
	StripeSessionID string    `json:"stripe_session_id"`
	CustomerID      *string   `json:"customer_id,omitempty"`
	CustomerEmail   *string   `json:"customer_email,omitempty"`
	AmountTotal     int64     `json:"amount_total"`
	Currency        string    `json:"currency"`
	PaymentStatus   string    `json:"payment_status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
