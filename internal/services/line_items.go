package services

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// LineItemLister fetches the line items purchased in a checkout session.
// It is an interface so tests can run without calling Stripe.
type LineItemLister interface {
	ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error)
}

// StripeLineItemLister is the production LineItemLister backed by the Stripe
// API. It expands each line item's product reference so entitlement matching
// can use the product ID and name directly.
type StripeLineItemLister struct{}

func (StripeLineItemLister) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	params := &stripe.CheckoutSessionListLineItemsParams{
		Session: stripe.String(sessionID),
	}
	params.Context = ctx
	params.AddExpand("data.price.product")

	var items []*stripe.LineItem
	iter := session.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	return items, iter.Err()
}
