package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/greatawakening/checkout-service/internal/app"
	"github.com/greatawakening/checkout-service/internal/config"
	"github.com/greatawakening/checkout-service/internal/controllers"
	"github.com/greatawakening/checkout-service/internal/middleware"
	"github.com/greatawakening/checkout-service/internal/repositories"
	"github.com/greatawakening/checkout-service/internal/routes"
	"github.com/greatawakening/checkout-service/internal/services"
	"github.com/greatawakening/checkout-service/internal/utils"
	"github.com/rs/cors"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize checkout-service:", err)
	}
	defer application.Close()

	// Repositories
	sessionRepo := repositories.NewCheckoutSessionRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	productRepo := repositories.NewProductRepository(application.DB)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedProductCatalog(context.Background(), cfg, productRepo); err != nil {
			utils.Logger.Fatal("Failed to seed product catalog:", err)
		}
	}

	// Services
	checkoutService := services.NewCheckoutService(cfg, sessionRepo)
	entitlementService := services.NewEntitlementService(cfg, userRepo, services.StripeLineItemLister{})
	webhookCheckService := services.NewWebhookCheckService()

	// Controllers
	healthController := controllers.NewHealthController(application)
	stripeWebhookController := controllers.NewStripeWebhookController(cfg, checkoutService, entitlementService, webhookCheckService)

	// Router setup
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.CheckoutStripeWebhook, stripeWebhookController.WebhookHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.CheckoutStripeWebhookCheck, stripeWebhookController.WebhookCheckHandler).Methods(http.MethodGet)

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	handler := middleware.Recovery(co.Handler(router))

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, handler); err != nil {
		utils.Logger.Fatal("checkout-service failed to start:", err)
	}
}
