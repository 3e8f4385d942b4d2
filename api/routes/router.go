package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camilorueda/vitrina-backend/api/controllers"
	webhookcontrollers "github.com/camilorueda/vitrina-backend/api/controllers/webhooks"
	"github.com/camilorueda/vitrina-backend/api/middleware"
	"github.com/camilorueda/vitrina-backend/internal/cart"
	"github.com/camilorueda/vitrina-backend/internal/orders"
	"github.com/camilorueda/vitrina-backend/internal/paymentmethods"
	webhookguard "github.com/camilorueda/vitrina-backend/internal/webhooks"
	mercadopagowebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/mercadopago"
	paypalwebhook "github.com/camilorueda/vitrina-backend/internal/webhooks/paypal"
	"github.com/camilorueda/vitrina-backend/pkg/config"
	"github.com/camilorueda/vitrina-backend/pkg/db"
	"github.com/camilorueda/vitrina-backend/pkg/logger"
	"github.com/camilorueda/vitrina-backend/pkg/metrics"
	"github.com/camilorueda/vitrina-backend/pkg/redis"
)

// RouterParams carries everything the HTTP surface needs. Webhook routes
// sit outside the tenant-header group: the tenant is part of the webhook
// URL each provider is registered with.
type RouterParams struct {
	Config             *config.Config
	Logger             *logger.Logger
	DB                 db.Pinger
	Redis              redis.Pinger
	IdempotencyStore   redis.IdempotencyStore
	CartService        cart.Service
	OrdersService      orders.Service
	MethodsService     paymentmethods.Service
	PayPalWebhook      paypalwebhook.Service
	PayPalGuard        *webhookguard.IdempotencyGuard
	MercadoPagoWebhook mercadopagowebhook.Service
	MercadoPagoGuard   *webhookguard.IdempotencyGuard
	WebhookMetrics     *metrics.WebhookMetrics
	MetricsGatherer    prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/paypal/{tenantID}", webhookcontrollers.PayPalWebhook(p.PayPalWebhook, p.PayPalGuard, p.WebhookMetrics, logg))
		r.Post("/mercadopago/{tenantID}", webhookcontrollers.MercadoPagoWebhook(p.MercadoPagoWebhook, p.MercadoPagoGuard, p.WebhookMetrics, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.TenantContext(logg))
		r.Use(middleware.Idempotency(p.IdempotencyStore, logg))

		r.Post("/cart/quote", controllers.QuoteCart(p.CartService, logg))
		r.Post("/checkout", controllers.Checkout(p.OrdersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(p.OrdersService, logg))
			r.Get("/{orderID}", controllers.GetOrder(p.OrdersService, logg))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.ListPaymentMethods(p.MethodsService, logg))
			r.Put("/{methodType}", controllers.ConfigurePaymentMethod(p.MethodsService, logg))
		})
	})

	return r
}
