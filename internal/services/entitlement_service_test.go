package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/greatawakening/checkout-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

const (
	testAstrologyProductID = "prod_astro_123"
	testStripeSessionID    = "cs_test_abc"
)

type fakeLineItemLister struct {
	items []*stripe.LineItem
	err   error
	calls int
}

func (f *fakeLineItemLister) ListLineItems(ctx context.Context, sessionID string) ([]*stripe.LineItem, error) {
	f.calls++
	return f.items, f.err
}

type fakeUserRepo struct {
	byEmail map[string]*models.User

	getErr    error
	createErr error
	setErr    error

	createCalls int
	setCalls    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return repositories.ErrUniqueViolation
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byEmail[email], nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SetHasAstrology(ctx context.Context, id uuid.UUID) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			u.HasAstrology = true
		}
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:             config.AppName,
		StripeSecretKey:     "sk_test_dummy",
		StripeWebhookSecret: "whsec_dummy",
		AstrologyProductID:  testAstrologyProductID,
	}
}

func astrologyLineItem() *stripe.LineItem {
	return &stripe.LineItem{
		Price: &stripe.Price{
			Product: &stripe.Product{ID: testAstrologyProductID, Name: "Astrology Reading"},
		},
	}
}

func otherLineItem() *stripe.LineItem {
	return &stripe.LineItem{
		Price: &stripe.Price{
			Product: &stripe.Product{ID: "prod_other", Name: "Tarot Deck"},
		},
	}
}

func TestGrantSkipsWithoutEmail(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "", "Ada Lovelace")
	require.NoError(t, err)
	assert.Zero(t, lister.calls, "line items must not be fetched without an email")
	assert.Zero(t, users.createCalls)
}

func TestGrantLineItemLookupFailureIsSoft(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{err: errors.New("stripe unavailable")}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "buyer@example.com", "Ada Lovelace")
	assert.Error(t, err)
	assert.Zero(t, users.createCalls, "no user mutation on lookup failure")
	assert.Zero(t, users.setCalls)
}

func TestGrantNoLineItems(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "buyer@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.Zero(t, users.createCalls)
	assert.Zero(t, users.setCalls)
}

func TestGrantNonMatchingProduct(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{otherLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "buyer@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.Zero(t, users.createCalls)
	assert.Zero(t, users.setCalls)
}

func TestGrantCreatesNewUser(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{otherLineItem(), astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "new@example.com", "Ada Lovelace")
	require.NoError(t, err)

	u := users.byEmail["new@example.com"]
	require.NotNil(t, u, "a user should have been created")
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName)
	assert.Equal(t, models.UserTypeNonMember, u.UserType)
	assert.True(t, u.HasAstrology)
	assert.Zero(t, users.setCalls, "new users are created with the flag set, not updated")
}

func TestGrantCreatesUserWithPlaceholderName(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "anon@example.com", "")
	require.NoError(t, err)

	u := users.byEmail["anon@example.com"]
	require.NotNil(t, u)
	assert.Equal(t, "Unknown", u.FirstName)
	assert.Equal(t, "User", u.LastName)
}

func TestGrantUpdatesExistingUser(t *testing.T) {
	users := newFakeUserRepo()
	existing := &models.User{
		ID:        uuid.New(),
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		UserType:  models.UserTypeGreatAwakener,
	}
	users.byEmail[existing.Email] = existing

	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, existing.Email, "Someone Else")
	require.NoError(t, err)

	assert.True(t, existing.HasAstrology)
	assert.Equal(t, "Grace", existing.FirstName, "other fields must not be overwritten")
	assert.Equal(t, models.UserTypeGreatAwakener, existing.UserType)
	assert.Zero(t, users.createCalls)
	assert.Equal(t, 1, users.setCalls)
}

func TestGrantIsIdempotent(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	require.NoError(t, svc.Grant(context.Background(), testStripeSessionID, "repeat@example.com", "Ada Lovelace"))
	require.NoError(t, svc.Grant(context.Background(), "cs_test_second", "repeat@example.com", "Ada Lovelace"))

	assert.Len(t, users.byEmail, 1, "no duplicate user row")
	assert.True(t, users.byEmail["repeat@example.com"].HasAstrology)
	assert.Equal(t, 1, users.createCalls)
	assert.Zero(t, users.setCalls, "an already-entitled user needs no update")
}

func TestGrantMatchesByNameFallback(t *testing.T) {
	cfg := testConfig()
	cfg.AstrologyProductID = "" // unexpanded / unconfigured ID forces the name fallback
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(cfg, users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "byname@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.NotNil(t, users.byEmail["byname@example.com"])
}

func TestGrantRejectsInvalidEmail(t *testing.T) {
	users := newFakeUserRepo()
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "not-an-email", "Ada Lovelace")
	assert.Error(t, err)
	assert.Zero(t, users.createCalls)
	assert.Zero(t, users.setCalls)
}

func TestGrantUserWriteFailureIsSoft(t *testing.T) {
	users := newFakeUserRepo()
	users.createErr = errors.New("db down")
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "fail@example.com", "Ada Lovelace")
	assert.Error(t, err)
}

func TestGrantConcurrentCreateIsBenign(t *testing.T) {
	users := newFakeUserRepo()
	users.createErr = repositories.ErrUniqueViolation
	lister := &fakeLineItemLister{items: []*stripe.LineItem{astrologyLineItem()}}
	svc := NewEntitlementService(testConfig(), users, lister)

	err := svc.Grant(context.Background(), testStripeSessionID, "race@example.com", "Ada Lovelace")
	assert.NoError(t, err, "losing the create race is not a failure")
}
