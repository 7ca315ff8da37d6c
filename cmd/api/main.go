package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chanderbhanswami/vardhman-mills-sub005/api/routes"
	checkoutsvc "github.com/chanderbhanswami/vardhman-mills-sub005/internal/checkout"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/orders"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/payment"
	"github.com/chanderbhanswami/vardhman-mills-sub005/internal/pricing"
	checkoutsession "github.com/chanderbhanswami/vardhman-mills-sub005/internal/session"
	authsession "github.com/chanderbhanswami/vardhman-mills-sub005/pkg/auth/session"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/config"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/logger"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/metrics"
	"github.com/chanderbhanswami/vardhman-mills-sub005/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "checkout-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "checkout-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	sessionRepo, err := checkoutsession.NewRepository(checkoutsession.RepositoryParams{
		Snapshots: redisClient,
		Logger:    logg,
		TTL:       cfg.Checkout.SessionTTL,
		Debounce:  cfg.Checkout.SnapshotDebounce,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session repository", err)
		os.Exit(1)
	}
	defer sessionRepo.Close()

	tokens, err := authsession.NewManager(cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create token manager", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(promRegistry)

	// The payment processor and the checkout service reference each other
	// through the timeout callback; the indirection breaks the cycle.
	var checkoutService checkoutsvc.Service

	paymentService, err := payment.NewService(payment.ServiceParams{
		Gateway: payment.InProcessGateway{},
		Config:  cfg.Payment,
		Logger:  logg,
		Metrics: checkoutMetrics,
		OnTimeout: func(sessionID uuid.UUID, state payment.State) {
			if checkoutService != nil {
				checkoutService.RecordPaymentTimeout(sessionID, state)
			}
		},
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	pricingEngine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing engine", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(cfg.Orders, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders client", err)
		os.Exit(1)
	}

	checkoutService, err = checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Sessions: sessionRepo,
		Payments: paymentService,
		Engine:   pricingEngine,
		Orders:   ordersClient,
		Logger:   logg,
		Metrics:  checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting checkout api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, tokens, checkoutService, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "checkout api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
