package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/constants"
	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/greatawakening/checkout-service/internal/repositories"
	"github.com/greatawakening/checkout-service/internal/utils"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
)

const purchaseConfirmationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { padding: 20px; max-width: 600px; margin: auto; border: 1px solid #ddd; border-radius: 5px; }
.header { font-size: 24px; font-weight: bold; color: #5b3a9d; }
</style>
</head>
<body>
<div class="container">
<p class="header">Your Astrology Reading is ready</p>
<p>Hi %s,</p>
<p>Thanks for your purchase. Your astrology reading has been unlocked on your account — sign in with this email address to view it.</p>
</div>
</body>
</html>`

// EntitlementService grants the astrology entitlement after a qualifying
// purchase. Every failure in here is a soft failure: it is logged with the
// session id and email for operator diagnosis and must never turn a webhook
// delivery into an error response — Stripe retrying the whole event would
// not fix a bad lookup, and the session record is already durable.
type EntitlementService struct {
	cfg            *config.Config
	userRepo       repositories.UserRepository
	lineItemLister LineItemLister
	sendgridClient *sendgrid.Client
	validate       *validator.Validate
}

func NewEntitlementService(cfg *config.Config, userRepo repositories.UserRepository, lister LineItemLister) *EntitlementService {
	stripe.Key = cfg.StripeSecretKey

	var sgClient *sendgrid.Client
	if cfg.SendgridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}

	return &EntitlementService{
		cfg:            cfg,
		userRepo:       userRepo,
		lineItemLister: lister,
		sendgridClient: sgClient,
		validate:       validator.New(),
	}
}

// Grant looks up what was bought in the session and, if the astrology product
// is among the line items, flips the buyer's entitlement flag — updating the
// user found by email, or creating a minimal NonMember record when none
// exists. Granting is idempotent; retried deliveries converge on the same
// state. The returned error is informational only and callers ignore it for
// the response.
func (s *EntitlementService) Grant(ctx context.Context, sessionID, customerEmail, customerName string) error {
	log := utils.Logger.WithFields(logrus.Fields{
		"stripe_session_id": sessionID,
		"customer_email":    customerEmail,
	})

	if customerEmail == "" {
		log.Info("No customer email on session; skipping entitlement grant")
		return nil
	}

	items, err := s.lineItemLister.ListLineItems(ctx, sessionID)
	if err != nil {
		log.WithError(err).Error("Failed to list line items for session; entitlement not granted")
		return fmt.Errorf("list line items for session %s: %w", sessionID, err)
	}
	if len(items) == 0 {
		log.Warn("Session has no line items; entitlement not granted")
		return nil
	}

	if !s.containsAstrologyProduct(items) {
		log.Debug("Astrology product not in purchase; nothing to grant")
		return nil
	}

	if err := s.validate.Var(customerEmail, "required,email"); err != nil {
		log.WithError(err).Warn("Customer email failed validation; entitlement not granted")
		return fmt.Errorf("invalid customer email on session %s: %w", sessionID, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, customerEmail)
	if err != nil {
		log.WithError(err).Error("Failed to look up user by email; entitlement not granted")
		return fmt.Errorf("look up user for session %s: %w", sessionID, err)
	}

	if user != nil {
		if user.HasAstrology {
			log.Info("User already has astrology entitlement; nothing to do")
			return nil
		}
		if err := s.userRepo.SetHasAstrology(ctx, user.ID); err != nil {
			log.WithError(err).Error("Failed to set astrology entitlement on existing user")
			return fmt.Errorf("grant entitlement for session %s: %w", sessionID, err)
		}
		log.Infof("Granted astrology entitlement to existing user %s", user.ID)
		s.sendPurchaseConfirmation(user.FirstName, customerEmail)
		return nil
	}

	firstName, lastName := utils.SplitDisplayName(customerName)
	newUser := &models.User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        customerEmail,
		UserType:     models.UserTypeNonMember,
		HasAstrology: true,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if repositories.IsUniqueViolation(err) {
			// A concurrent delivery created the user first; it also granted
			// the entitlement, so there is nothing left to do.
			log.Info("User created by a concurrent delivery; skipping")
			return nil
		}
		log.WithError(err).Error("Failed to create user for entitlement grant")
		return fmt.Errorf("create user for session %s: %w", sessionID, err)
	}
	log.Infof("Created user %s with astrology entitlement", newUser.ID)
	s.sendPurchaseConfirmation(firstName, customerEmail)
	return nil
}

// containsAstrologyProduct tests whether any line item resolves to the
// astrology product. The configured product ID is authoritative; the name
// comparison is a fallback for unexpanded product references and is known to
// be fragile if the product is renamed in the Stripe dashboard.
func (s *EntitlementService) containsAstrologyProduct(items []*stripe.LineItem) bool {
	for _, li := range items {
		if li == nil || li.Price == nil || li.Price.Product == nil {
			continue
		}
		product := li.Price.Product
		if s.cfg.AstrologyProductID != "" && product.ID == s.cfg.AstrologyProductID {
			return true
		}
		if product.Name == constants.AstrologyProductName {
			return true
		}
	}
	return false
}

func (s *EntitlementService) sendPurchaseConfirmation(firstName, email string) {
	if s.sendgridClient == nil {
		return
	}

	from := mail.NewEmail("The Great Awakening", s.cfg.SendgridFromEmail)
	to := mail.NewEmail(firstName, email)
	plainTextContent := fmt.Sprintf(
		"Hi %s,\n\nThanks for your purchase. Your astrology reading has been unlocked on your account — sign in with this email address to view it.",
		firstName,
	)
	htmlContent := fmt.Sprintf(purchaseConfirmationEmailHTML, firstName)

	msg := mail.NewSingleEmail(from, constants.EmailSubjectPurchaseConfirmation, to, plainTextContent, htmlContent)
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, err := s.sendgridClient.Send(msg); err != nil {
		utils.Logger.WithError(err).Error("Failed to send purchase confirmation email")
	}
}
