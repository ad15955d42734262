package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/mvcoutinho/storefront-api/internal/auth"
	"github.com/mvcoutinho/storefront-api/internal/catalog"
	"github.com/mvcoutinho/storefront-api/internal/checkout"
	"github.com/mvcoutinho/storefront-api/internal/config"
	"github.com/mvcoutinho/storefront-api/internal/dashboard"
	"github.com/mvcoutinho/storefront-api/internal/identity"
	"github.com/mvcoutinho/storefront-api/internal/orders"
	"github.com/mvcoutinho/storefront-api/internal/payment"
	"github.com/mvcoutinho/storefront-api/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	identityClient := identity.NewClient(cfg.IdentityURL, cfg.IdentityKey, httpClient)
	paymentClient := payment.NewClient(cfg.PaymentURL, cfg.PaymentToken, httpClient)

	productRepo := catalog.NewProductRepository(db)
	orderRepo := orders.NewOrderRepository(db)
	statsRepo := dashboard.NewStatsRepository(db)

	guard := auth.NewMiddleware(identityClient, cfg.AdminEmail, logger)
	authHandler := auth.NewHandler(identityClient, cfg.AdminEmail, logger)
	catalogHandler := catalog.NewHandler(productRepo, logger)
	ordersHandler := orders.NewHandler(orderRepo, logger)
	checkoutService := checkout.NewService(productRepo, orderRepo, paymentClient, cfg.SiteURL, logger)
	checkoutHandler := checkout.NewHandler(checkoutService, logger)
	dashboardHandler := dashboard.NewHandler(statsRepo, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(telemetry.RouteAttribute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogHandler.HandleList)
		r.Post("/checkout", checkoutHandler.HandleCheckout)
		r.Post("/checkout-teste", checkoutHandler.HandleTestCheckout)

		r.Post("/client/signup", authHandler.HandleClientSignup)
		r.Post("/client/login", authHandler.HandleClientLogin)
		r.Post("/admin/login", authHandler.HandleAdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireUser)
			r.Get("/client/orders/{userId}", ordersHandler.HandleClientHistory)
		})

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAdmin)
			r.Get("/admin/dashboard", dashboardHandler.HandleDashboard)
			r.Get("/admin/orders", ordersHandler.HandleAdminList)
			r.Patch("/admin/orders/{id}", ordersHandler.HandleUpdateStatus)
			r.Delete("/admin/orders/{id}", ordersHandler.HandleDelete)
			r.Post("/admin/products", catalogHandler.HandleCreate)
			r.Patch("/admin/products/{id}", catalogHandler.HandleUpdate)
			r.Patch("/admin/products/{id}/highlight", catalogHandler.HandleHighlight)
			r.Delete("/admin/products/{id}", catalogHandler.HandleDelete)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelhttp.NewHandler(r, cfg.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront api", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
