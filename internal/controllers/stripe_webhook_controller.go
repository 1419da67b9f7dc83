package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/constants"
	"github.com/greatawakening/checkout-service/internal/dtos"
	"github.com/greatawakening/checkout-service/internal/services"
	"github.com/greatawakening/checkout-service/internal/utils"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookCheckParam = "id"

type StripeWebhookController struct {
	cfg                 *config.Config
	checkoutService     *services.CheckoutService
	entitlementService  *services.EntitlementService
	webhookCheckService *services.WebhookCheckService
}

func NewStripeWebhookController(
	cfg *config.Config,
	checkoutService *services.CheckoutService,
	entitlementService *services.EntitlementService,
	webhookCheckService *services.WebhookCheckService,
) *StripeWebhookController {
	return &StripeWebhookController{
		cfg:                 cfg,
		checkoutService:     checkoutService,
		entitlementService:  entitlementService,
		webhookCheckService: webhookCheckService,
	}
}

// WebhookHandler -> POST /api/v1/checkout/stripe/webhook
//
// Signature verification happens before the payload is interpreted as
// anything. Client-class problems (bad signature, malformed event) get a 400
// that Stripe will not retry; a failed session insert gets a 500 that it
// will. Entitlement problems never change the response: that step is
// idempotent and redelivering the whole event would not fix it.
func (c *StripeWebhookController) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeMissingCredentials, "Missing Stripe-Signature header", nil)
		return
	}
	if c.cfg.StripeWebhookSecret == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeMissingCredentials, "Webhook signing secret is not configured", nil)
		return
	}

	// The exact raw bytes are what the signature covers; no re-serialization
	// before verification.
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Failed to read webhook body", err)
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, c.cfg.StripeWebhookSecret)
	if err != nil {
		utils.Logger.WithError(err).Error("Stripe webhook signature verification failed")
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidSignature, "Webhook signature verification failed", nil)
		return
	}

	if event.Type == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Event is missing a type", nil)
		return
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Event is missing a data object", nil)
		return
	}

	c.webhookCheckService.CaptureEvent(event.ID)

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		utils.Logger.Infof("Unhandled Stripe event type received in checkout-service: %s", event.Type)
		utils.RespondWithJSON(w, http.StatusOK, dtos.WebhookResponse{Received: true, Ignored: true})
		return
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		utils.Logger.WithError(err).Error("Could not parse stripe.CheckoutSession object")
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Could not parse checkout session object", err)
		return
	}
	if cs.ID == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Checkout session is missing an id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.RequestDBTimeout)
	defer cancel()

	outcome, err := c.checkoutService.RecordSession(ctx, &cs)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to record checkout session", nil, err)
		return
	}

	var customerEmail, customerName string
	if cs.CustomerDetails != nil {
		customerEmail = cs.CustomerDetails.Email
		customerName = cs.CustomerDetails.Name
	}

	// Soft by contract: the grant logs its own failures and the response
	// stays a success either way.
	_ = c.entitlementService.Grant(ctx, cs.ID, customerEmail, customerName)

	resp := dtos.WebhookResponse{
		Received:  true,
		Duplicate: outcome == services.OutcomeAlreadyExists,
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// WebhookCheckHandler -> GET /api/v1/checkout/stripe/webhook/check
func (c *StripeWebhookController) WebhookCheckHandler(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get(webhookCheckParam)
	if eventID == "" {
		utils.RespondErrorWithCode(
			w,
			http.StatusBadRequest,
			utils.ErrCodeInvalidPayload,
			"Missing 'id' query param",
			nil,
		)
		return
	}

	found := c.webhookCheckService.ConsumeWebhookCheckEvent(eventID)
	if !found {
		utils.RespondErrorWithCode(
			w,
			http.StatusNotFound,
			utils.ErrCodeNotFound,
			"Event ID not recognized or already consumed",
			nil,
		)
		return
	}

	resp := dtos.WebhookCheckResponse{Message: "Webhook event recognized"}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
