package config

import (
	"os"
	"time"

	"github.com/greatawakening/checkout-service/internal/constants"
	"github.com/greatawakening/checkout-service/internal/utils"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

const AppName = "checkout-service"

const (
	LDConnectionTimeout = 5 * time.Second
	ldContextKind       = "service"
)

type Config struct {
	AppName             string
	AppPort             string
	AppUrl              string
	DBUrl               string
	StripeSecretKey     string
	StripeWebhookSecret string
	AstrologyProductID  string
	SendgridAPIKey      string
	SendgridFromEmail   string

	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_SendgridSandboxMode bool
}

// LoadConfig reads the environment and fails fast on anything required.
// STRIPE_SECRET_KEY, STRIPE_WEBHOOK_SECRET and DB_URL must be present at
// startup; APP_PORT defaults to 8000. LaunchDarkly flags are only consulted
// when LD_SDK_KEY is set, otherwise every flag keeps its default.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	stripeSecretKey := os.Getenv("STRIPE_SECRET_KEY")
	if stripeSecretKey == "" {
		utils.Logger.Fatal("STRIPE_SECRET_KEY env var is missing")
	}

	stripeWebhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if stripeWebhookSecret == "" {
		utils.Logger.Fatal("STRIPE_WEBHOOK_SECRET env var is missing")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = constants.DefaultAppPort
	}

	astrologyProductID := os.Getenv("ASTROLOGY_PRODUCT_ID")
	if astrologyProductID == "" {
		utils.Logger.Warnf("ASTROLOGY_PRODUCT_ID not set; falling back to name matching on %q only", constants.AstrologyProductName)
	}

	sendgridFromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if sendgridFromEmail == "" {
		sendgridFromEmail = "no-reply@greatawakening.app"
	}

	cfg := &Config{
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              os.Getenv("APP_URL"),
		DBUrl:               dbURL,
		StripeSecretKey:     stripeSecretKey,
		StripeWebhookSecret: stripeWebhookSecret,
		AstrologyProductID:  astrologyProductID,
		SendgridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		SendgridFromEmail:   sendgridFromEmail,
	}

	loadFeatureFlags(cfg)
	return cfg
}

func loadFeatureFlags(cfg *Config) {
	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags keep their defaults")
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldContextKind, AppName)

	seedFlag, err := ldClient.BoolVariation("seed_db_with_test_data", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_db_with_test_data flag")
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", seedFlag)

	corsFlag, err := ldClient.BoolVariation("cors_high_security", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving cors_high_security flag")
	}
	utils.Logger.Debugf("cors_high_security flag: %t", corsFlag)

	sgSandboxFlag, err := ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}
	utils.Logger.Debugf("sendgrid_sandbox_mode flag: %t", sgSandboxFlag)

	cfg.LDFlag_SeedDbWithTestData = seedFlag
	cfg.LDFlag_CORSHighSecurity = corsFlag
	cfg.LDFlag_SendgridSandboxMode = sgSandboxFlag
}
