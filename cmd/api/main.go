package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/camilorueda/vitrina-backend/api/routes"
	"github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/internal/discounts"
	"github.com/camilorueda/vitrina-backend/internal/notifications"
	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	"github.com/camilorueda/vitrina-backend/internal/payments"
	webhookguard "github.com/camilorueda/vitrina-backend/internal/webhooks"
	mercadopagowebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/mercadopago"
	paypalwebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/paypal"
	"github.com/camilorueda/vitrina-backend/pkg/config"
	"github.com/camilorueda/vitrina-backend/pkg/db"
	"github.com/camilorueda/vitrina-backend/pkg/email"
	"github.com/camilorueda/vitrina-backend/pkg/enums"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/mercadopago"
	"github.com/camilorueda/vitrina-backend/pkg/metrics"
	"github.com/camilorueda/vitrina-backend/pkg/migrate"
	"github.com/camilorueda/vitrina-backend/pkg/paypal"
	"github.com/camilorueda/vitrina-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	currency, err := enums.ParseCurrency(cfg.Pricing.DefaultCurrency)
	if err != nil {
		logg.Warn(context.Background(), "unknown default currency, falling back to USD")
		currency = enums.CurrencyUSD
	}

	discountLoader, err := discounts.NewLoader(discounts.NewRepository(dbClient.DB()), cfg.Pricing.DiscountCacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount loader", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(
		cart.NewProductRepository(dbClient.DB()),
		discountLoader,
		discounts.NewResolver(),
		cfg.Pricing.TaxRateBasisPts,
		currency,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(ordersRepo, paymentsRepo, dbClient, cartService)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	methodsService, err := paymentmethods.NewService(paymentmethods.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create payment methods service", err)
		os.Exit(1)
	}

	emailClient, err := email.NewClient(cfg.Email, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create email client", err)
		os.Exit(1)
	}
	dispatcher, err := notifications.NewDispatcher(notifications.DispatcherParams{
		Sender:  emailClient,
		Tenants: notifications.NewTenantReader(dbClient.DB()),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	paypalClient, err := paypal.NewClient(cfg.PayPal, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create paypal client", err)
		os.Exit(1)
	}
	mercadopagoClient, err := mercadopago.NewClient(cfg.MercadoPago, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mercadopago client", err)
		os.Exit(1)
	}

	paypalService, err := paypalwebhook.NewService(paypalwebhook.ServiceParams{
		Orders:    ordersService,
		OrderRepo: ordersRepo,
		Methods:   methodsService,
		Client:    paypalClient,
		Notifier:  dispatcher,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create paypal webhook service", err)
		os.Exit(1)
	}
	mercadopagoService, err := mercadopagowebhook.NewService(mercadopagowebhook.ServiceParams{
		Orders:    ordersService,
		OrderRepo: ordersRepo,
		Methods:   methodsService,
		Client:    mercadopagoClient,
		Notifier:  dispatcher,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create mercadopago webhook service", err)
		os.Exit(1)
	}

	paypalGuard, err := webhookguard.NewIdempotencyGuard(redisClient, cfg.Webhooks.IdempotencyTTL, "paypal-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create paypal webhook guard", err)
		os.Exit(1)
	}
	mercadopagoGuard, err := webhookguard.NewIdempotencyGuard(redisClient, cfg.Webhooks.IdempotencyTTL, "mercadopago-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create mercadopago webhook guard", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:             cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			IdempotencyStore:   redisClient,
			CartService:        cartService,
			OrdersService:      ordersService,
			MethodsService:     methodsService,
			PayPalWebhook:      paypalService,
			PayPalGuard:        paypalGuard,
			MercadoPagoWebhook: mercadopagoService,
			MercadoPagoGuard:   mercadopagoGuard,
			WebhookMetrics:     webhookMetrics,
			MetricsGatherer:    registry,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		// let in-flight order notifications drain
		dispatcher.Wait()
	}
}
