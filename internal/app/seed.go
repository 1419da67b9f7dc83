package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/constants"
	"github.com/greatawakening/checkout-service/internal/models"
	"github.com/greatawakening/checkout-service/internal/repositories"
	"github.com/greatawakening/checkout-service/internal/utils"
)

// SentinelProductID keeps catalog seeding idempotent across restarts and
// across concurrently starting replicas; the upsert on stripe_product_id
// absorbs any race.
const SentinelProductID = "dddddddd-dddd-4ddd-dddd-ddddddddddd1"

// SeedProductCatalog makes sure the astrology product exists in the catalog.
// The webhook flow matches against Stripe's own product data, not this table,
// so seeding is purely for the storefront.
func SeedProductCatalog(ctx context.Context, cfg *config.Config, productRepo repositories.ProductRepository) error {
	stripeProductID := cfg.AstrologyProductID
	if stripeProductID == "" {
		utils.Logger.Info("checkout-service: no ASTROLOGY_PRODUCT_ID configured; skipping catalog seeding.")
		return nil
	}

	if existing, err := productRepo.GetByStripeProductID(ctx, stripeProductID); err != nil {
		return fmt.Errorf("failed to check for seeded product: %w", err)
	} else if existing != nil {
		utils.Logger.Info("checkout-service: Seed data already present; skipping seeding.")
		return nil
	}

	product := &models.Product{
		ID:              uuid.MustParse(SentinelProductID),
		StripeProductID: stripeProductID,
		Name:            constants.AstrologyProductName,
		PriceCents:      4900,
	}
	if err := productRepo.Upsert(ctx, product); err != nil {
		return fmt.Errorf("failed to seed astrology product: %w", err)
	}

	utils.Logger.Infof("Seeded product catalog with %q (%s).", product.Name, stripeProductID)
	return nil
}
