package dtos

// WebhookResponse acknowledges a Stripe event delivery. Duplicate and
// Ignored are informational; Stripe only cares about the status code.
type WebhookResponse struct {
	Received  bool `json:"received"`
	Duplicate bool `json:"duplicate,omitempty"`
	Ignored   bool `json:"ignored,omitempty"`
}

type WebhookCheckResponse struct {
	Message string `json:"message"`
}
