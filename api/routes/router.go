package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/controllers"
	"github.com/chanderbhanswami/vardhman-mills-sub005/api/middleware"
	checkoutsvc "github.com/chanderbhanswami/vardhman-mills-sub005/internal/checkout"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/redis"
)

type tokenManager interface {
	controllers.TokenMinter
	middleware.TokenParser
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	tokens tokenManager,
	checkoutService checkoutsvc.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var pinger redis.Pinger
	if redisClient != nil {
		pinger = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pinger))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Post("/validate/fields", controllers.FieldValidate(logg))
		r.Post("/validate/password", controllers.PasswordStrength(logg))
		r.Get("/payment-methods", controllers.PaymentMethods())
		r.Get("/shipping-methods", controllers.ShippingMethods())
		r.Post("/payments/callback", controllers.PaymentCallback(checkoutService, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		createSession := controllers.SessionCreate(checkoutService, tokens, logg)
		if redisClient != nil {
			limiter := &middleware.IPLimiter{
				Store:  redisClient,
				Limit:  int64(cfg.RateLimit.SessionCreateIPLimit),
				Window: cfg.RateLimit.SessionCreateWindow,
			}
			r.With(middleware.SessionCreateLimit(limiter, logg)).Post("/sessions", createSession)
		} else {
			r.Post("/sessions", createSession)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.GuestSession(tokens, logg))

			r.Route("/session", func(r chi.Router) {
				r.Get("/", controllers.SessionCurrent(checkoutService, logg))
				r.Delete("/", controllers.SessionCancel(checkoutService, logg))
				r.Post("/steps/{step}", controllers.StepSubmit(checkoutService, logg))
				r.Post("/navigate", controllers.Navigate(checkoutService, logg))
				r.Get("/quote", controllers.Quote(checkoutService, logg))
				r.Post("/coupons", controllers.CouponApply(checkoutService, logg))
				r.Delete("/coupons/{code}", controllers.CouponRemove(checkoutService, logg))
				r.Get("/review", controllers.Review(checkoutService, logg))
				r.Post("/payment/confirm", controllers.PaymentConfirm(checkoutService, logg))
				r.Post("/payment/retry", controllers.PaymentRetry(checkoutService, logg))
				r.Post("/submit", controllers.Submit(checkoutService, logg))
			})
		})
	})

	return r
}
