package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/constants"
	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/greatawakening/checkout-service/internal/repositories"
	"github.com/greatawakening/checkout-service/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
)

// RecordOutcome describes what recording a checkout session did.
type RecordOutcome string

const (
	OutcomeCreated       RecordOutcome = "CREATED"
	OutcomeAlreadyExists RecordOutcome = "ALREADY_EXISTS"
)

// CheckoutService persists completed checkout sessions.
type CheckoutService struct {
	cfg         *config.Config
	sessionRepo repositories.CheckoutSessionRepository
}

func NewCheckoutService(cfg *config.Config, sessionRepo repositories.CheckoutSessionRepository) *CheckoutService {
	return &CheckoutService{
		cfg:         cfg,
		sessionRepo: sessionRepo,
	}
}

// RecordSession creates the durable record for a completed session. A unique
// violation on stripe_session_id means Stripe redelivered the event (or two
// deliveries raced); that is a benign duplicate, not an error, and the caller
// should continue to the entitlement step. Every other persistence failure
// propagates so the webhook responds 500 and Stripe retries.
func (s *CheckoutService) RecordSession(ctx context.Context, cs *stripe.CheckoutSession) (RecordOutcome, error) {
	record := &models.CheckoutSession{
		ID:              uuid.New(),
		StripeSessionID: cs.ID,
		AmountTotal:     cs.AmountTotal,
		Currency:        string(cs.Currency),
		PaymentStatus:   string(cs.PaymentStatus),
	}
	if record.Currency == "" {
		record.Currency = constants.DefaultCurrency
	}
	if record.PaymentStatus == "" {
		record.PaymentStatus = constants.DefaultPaymentStatus
	}
	if cs.Customer != nil && cs.Customer.ID != "" {
		record.CustomerID = utils.Ptr(cs.Customer.ID)
	}
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		record.CustomerEmail = utils.Ptr(cs.CustomerDetails.Email)
	}

	err := s.sessionRepo.Create(ctx, record)
	if err == nil {
		utils.Logger.WithFields(logrus.Fields{
			"stripe_session_id": cs.ID,
			"amount_total":      record.AmountTotal,
			"currency":          record.Currency,
		}).Info("Recorded checkout session")
		return OutcomeCreated, nil
	}
	if repositories.IsUniqueViolation(err) {
		utils.Logger.Infof("Checkout session %s already recorded; duplicate delivery", cs.ID)
		return OutcomeAlreadyExists, nil
	}
	return "", err
}
