package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog row mirroring a Stripe product. The webhook flow only
// reads product identity from Stripe itself; this table exists for the
// storefront and is seeded at startup.
type Product struct {
	ID              uuid.UUID `json:"id"`
	StripeProductID string    `json:"stripe_product_id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
