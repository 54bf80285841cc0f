package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/sindri/internal"
	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/cache"
	"github.com/dukerupert/sindri/internal/cart"
	"github.com/dukerupert/sindri/internal/checkout"
	"github.com/dukerupert/sindri/internal/domain"
	"github.com/dukerupert/sindri/internal/handler/storefront"
	"github.com/dukerupert/sindri/internal/middleware"
	"github.com/dukerupert/sindri/internal/mutation"
	"github.com/dukerupert/sindri/internal/notify"
	"github.com/dukerupert/sindri/internal/pricing"
	"github.com/dukerupert/sindri/internal/router"
	"github.com/dukerupert/sindri/internal/session"
	"github.com/dukerupert/sindri/internal/telemetry"
	"github.com/dukerupert/sindri/internal/tenant"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Upstream API client (owns all persistence)
	client := api.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := telemetry.NewMetrics("sindri", registry)

	// Cached collections: the only shared mutable state
	cartCol := cache.New[domain.Cart]("cart", logger)
	walletCol := cache.New[domain.Wallet]("wallet", logger)
	ordersCol := cache.New[domain.OrderList]("orders", logger)

	// Session state and notification sink
	sessions := session.NewMemory()
	notifier := notify.NewLogNotifier(logger)

	// Mutation coordinator
	redirect := func(path string) {
		logger.Info("redirecting to login flow", "path", path)
	}
	coordinator := mutation.NewCoordinator(notifier, sessions, redirect, cfg.Tenant.LoginPath, metrics, logger)

	// Tenant resolution and pricing
	resolver := tenant.NewPathResolver(
		cfg.Tenant.AdminPrefix,
		cfg.Tenant.ShopPrefix,
		domain.Currency(cfg.Tenant.DefaultCurrency),
	)
	formatter := pricing.NewFormatter(logger)

	taxRate, err := decimal.NewFromString(cfg.Checkout.TaxRate)
	if err != nil {
		return fmt.Errorf("invalid CHECKOUT_TAX_RATE: %w", err)
	}

	// Services
	cartService := cart.NewService(cartCol, coordinator, client, formatter, logger)
	checkoutService := checkout.NewService(ordersCol, cartCol, walletCol, coordinator, client, taxRate, logger)

	// Warm the caches; failures are non-fatal, collections refresh lazily.
	if err := cartService.Refresh(ctx); err != nil {
		logger.Warn("initial cart refresh failed", "error", err)
	}
	if err := checkoutService.RefreshWallet(ctx); err != nil {
		logger.Warn("initial wallet refresh failed", "error", err)
	}

	// Router
	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
	)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	h := storefront.NewHandler(cartService, checkoutService, resolver, sessions, formatter, client, logger)
	h.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting storefront state server", "address", addr, "upstream", cfg.Upstream.BaseURL)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
