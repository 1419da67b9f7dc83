package routes

const (
	Health                     = "/health"
	CheckoutStripeWebhook      = "/api/v1/checkout/stripe/webhook"
	CheckoutStripeWebhookCheck = "/api/v1/checkout/stripe/webhook/check"
)
