package constants

import "time"

const (
	// DefaultAppPort is used when APP_PORT is not set.
	DefaultAppPort = "8000"

	// AstrologyProductName is the fallback match for the astrology product
	// when the line item's product reference is not expanded. Matching by
	// name is fragile (a rename in the Stripe dashboard breaks it silently);
	// the product ID match is authoritative.
	AstrologyProductName = "Astrology Reading"

	// Defaults substituted for fields absent on the inbound session.
	DefaultCurrency      = "usd"
	DefaultPaymentStatus = "unknown"

	// RequestDBTimeout bounds persistence work done inside a single webhook
	// delivery. Expiry maps to the retryable 500 path.
	RequestDBTimeout = 10 * time.Second

	EmailSubjectPurchaseConfirmation = "Your Astrology Reading is ready"
)
